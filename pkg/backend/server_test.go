package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := New(testSecret).Router()

	if w := do(t, router, http.MethodGet, "/api/v1/calendar/tasks", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	forged, err := IssueToken([]byte("other-secret"), "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if w := do(t, router, http.MethodGet, "/api/v1/calendar/tasks", forged, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with forged token, got %d", w.Code)
	}

	expired, err := IssueToken(testSecret, "u1", -time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if w := do(t, router, http.MethodGet, "/api/v1/calendar/tasks", expired, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with expired token, got %d", w.Code)
	}

	valid, err := IssueToken(testSecret, "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	w := do(t, router, http.MethodGet, "/api/v1/calendar/tasks", valid, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"tasks":[]`) {
		t.Errorf("Expected empty task list, got %s", w.Body.String())
	}
}

func TestStorePushSkipsCompleted(t *testing.T) {
	store := NewStore()
	start := dates.NewDate(2025, 1, 1)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store.Import("u1", start, []model.Template{{Title: "a"}, {Title: "b"}, {Title: "c"}}, now)

	tasks := store.Tasks("u1", model.TaskQuery{IncludeCompleted: true})
	if _, err := store.Complete("u1", tasks[1].ID, nil, now); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	pushed := store.Push("u1", nil)
	if len(pushed) != 2 {
		t.Fatalf("Expected 2 pushed tasks, got %d", len(pushed))
	}

	after := store.Tasks("u1", model.TaskQuery{IncludeCompleted: true})
	want := map[string]string{"a": "2025-01-02", "b": "2025-01-02", "c": "2025-01-04"}
	for _, task := range after {
		if got := task.ScheduledDate.String(); got != want[task.Title] {
			t.Errorf("%s: expected scheduled %s, got %s", task.Title, want[task.Title], got)
		}
	}
}

func TestStorePushFromDate(t *testing.T) {
	store := NewStore()
	store.Import("u1", dates.NewDate(2025, 1, 1), []model.Template{{Title: "a"}, {Title: "b"}}, time.Now())

	from := dates.NewDate(2025, 1, 2)
	pushed := store.Push("u1", &from)
	if len(pushed) != 1 || pushed[0].Title != "b" {
		t.Fatalf("Expected only b to be pushed, got %+v", pushed)
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	srv := New(testSecret)
	token, _ := IssueToken(testSecret, "u1", time.Hour)

	w := do(t, srv.Router(), http.MethodPost, "/api/v1/calendar/tasks/missing/complete", token, `{}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if body["error"] != "Task not found" {
		t.Errorf("Expected error message, got %q", body["error"])
	}
}

func TestUsersAreIsolated(t *testing.T) {
	srv := New(testSecret)
	alice, _ := IssueToken(testSecret, "alice", time.Hour)
	bob, _ := IssueToken(testSecret, "bob", time.Hour)
	router := srv.Router()

	w := do(t, router, http.MethodPost, "/api/v1/calendar/import-templates", alice,
		`{"templates":[{"title":"hello","task_type":"post"}],"start_date":"2025-01-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/v1/calendar/tasks?include_completed=true", bob, "")
	if !strings.Contains(w.Body.String(), `"count":0`) {
		t.Errorf("Expected bob to see no tasks, got %s", w.Body.String())
	}
}

func TestSchedulePostValidatesDate(t *testing.T) {
	srv := New(testSecret)
	token, _ := IssueToken(testSecret, "u1", time.Hour)

	w := do(t, srv.Router(), http.MethodPost, "/api/v1/posts/schedule", token,
		`{"content":"hi","platform":"x","scheduled_for":"tomorrow"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad scheduled_for, got %d", w.Code)
	}
}
