package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/backend"
	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

var secret = []byte("api-test-secret")

func newBackend(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(backend.New(secret).Router())
	t.Cleanup(srv.Close)

	token, err := backend.IssueToken(secret, "tester", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	client, err := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return srv, client
}

func fixedServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestImportFetchAndComplete(t *testing.T) {
	_, client := newBackend(t)
	ctx := context.Background()
	start := dates.NewDate(2025, 1, 1)

	n, err := client.ImportTemplates(ctx, start, []model.Template{{Title: "one"}, {Title: "two"}})
	if err != nil {
		t.Fatalf("ImportTemplates failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 imported, got %d", n)
	}

	tasks, err := client.FetchTasks(ctx, model.TaskQuery{
		Range: &model.DateRange{Start: start, End: start.AddDays(1)},
	})
	if err != nil {
		t.Fatalf("FetchTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "one" || tasks[1].ScheduledDate != start.AddDays(1) {
		t.Fatalf("Unexpected tasks: %+v", tasks)
	}

	content := "done!"
	done, err := client.CompleteTask(ctx, tasks[0].ID, &content)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == nil {
		t.Errorf("Expected completed task with instant, got %+v", done)
	}
	if done.GeneratedContent == nil || *done.GeneratedContent != content {
		t.Errorf("Expected generated content %q, got %v", content, done.GeneratedContent)
	}
}

func TestMissingCredentialIsUnauthorized(t *testing.T) {
	srv, _ := newBackend(t)
	store := &auth.TokenStore{Path: filepath.Join(t.TempDir(), auth.TokenFile)}
	client, err := NewClient(srv.URL, store)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.FetchTodayTasks(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if !errors.Is(err, auth.ErrNoToken) {
		t.Errorf("Expected wrapped auth.ErrNoToken, got %v", err)
	}
}

func TestRejectedCredentialIsUnauthorized(t *testing.T) {
	srv, _ := newBackend(t)
	client, err := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "garbage"}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.FetchReplyHistory(context.Background())
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("Expected unauthorized, got %v", err)
	}
	if UserMessage(err) != "Unauthorized - please log in again" {
		t.Errorf("Unexpected user message %q", UserMessage(err))
	}
}

func TestCompleteUnknownIsNotFound(t *testing.T) {
	_, client := newBackend(t)
	_, err := client.CompleteTask(context.Background(), "nope", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if UserMessage(err) != "Task not found" {
		t.Errorf("Expected server message verbatim, got %q", UserMessage(err))
	}
}

func TestServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"structured", http.StatusInternalServerError, `{"error":"quota exceeded"}`, KindServer, "quota exceeded"},
		{"bare", http.StatusBadGateway, `<html>bad gateway</html>`, KindServer, "HTTP 502"},
		{"decoding", http.StatusOK, `not json`, KindDecoding, "Unexpected response from the server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fixedServer(t, tt.status, tt.body)
			_, err := client.FetchTasks(context.Background(), model.TaskQuery{})
			if KindOf(err) != tt.kind {
				t.Fatalf("Expected kind %s, got %v", tt.kind, err)
			}
			if got := UserMessage(err); got != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestFetchTasksSkipsInvalidRows(t *testing.T) {
	body := `{"tasks":[
		{"task_id":"a","title":"ok","scheduled_date":"2025-01-01","is_completed":true,"completed_at":"2025-01-01T10:00:00Z"},
		{"task_id":"b","title":"legacy","scheduled_date":"2025-01-02","is_completed":true},
		{"task_id":"","title":"no id","scheduled_date":"2025-01-03"},
		{"task_id":"c","title":"pending","scheduled_date":"2025-01-04"}
	]}`
	client := fixedServer(t, http.StatusOK, body)

	tasks, err := client.FetchTasks(context.Background(), model.TaskQuery{IncludeCompleted: true})
	if err != nil {
		t.Fatalf("FetchTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "c" {
		t.Errorf("Expected valid rows a and c, got %+v", tasks)
	}
}

func TestCompleteTaskRejectsInvalidTask(t *testing.T) {
	client := fixedServer(t, http.StatusOK, `{"success":true,"task":{"task_id":"t","is_completed":true}}`)
	_, err := client.CompleteTask(context.Background(), "t", nil)
	if !errors.Is(err, ErrDecoding) {
		t.Errorf("Expected ErrDecoding, got %v", err)
	}
}

func TestGeneratePost(t *testing.T) {
	_, client := newBackend(t)
	ctx := context.Background()
	mood := "excited"

	post, err := client.GeneratePost(ctx, model.PostPrompt{Topic: "our launch", Platform: "linkedin", Mood: &mood})
	if err != nil {
		t.Fatalf("GeneratePost failed: %v", err)
	}
	if !post.Success || post.PostID == "" {
		t.Errorf("Expected success with a post id, got %+v", post)
	}
	if post.Mood != "excited" || post.Platform != "linkedin" {
		t.Errorf("Expected mood and platform echoed, got %+v", post)
	}
	if !strings.Contains(post.Content, "our launch") || strings.Contains(post.Content, "🚀") {
		t.Errorf("Expected emoji-free content about the topic, got %q", post.Content)
	}

	scheduled, err := client.FetchScheduledPosts(ctx)
	if err != nil {
		t.Fatalf("FetchScheduledPosts failed: %v", err)
	}
	if len(scheduled) != 0 {
		t.Errorf("Expected generation not to queue a post, got %+v", scheduled)
	}

	_, err = client.GeneratePost(ctx, model.PostPrompt{Platform: "linkedin"})
	if KindOf(err) != KindServer {
		t.Errorf("Expected server error for a missing topic, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, nil, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.FetchScheduledPosts(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}

func TestInvalidRequest(t *testing.T) {
	if _, err := NewClient("not a url", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for bad base URL, got %v", err)
	}

	_, client := newBackend(t)
	if _, err := client.CompleteTask(context.Background(), " ", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for empty id, got %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"posts":[],"count":0}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.FetchScheduledPosts(context.Background()); err != nil {
		t.Fatalf("FetchScheduledPosts failed: %v", err)
	}
	if got.Get("Authorization") != "Bearer tok" {
		t.Errorf("Expected bearer header, got %q", got.Get("Authorization"))
	}
	if got.Get("X-Request-Id") == "" {
		t.Error("Expected X-Request-Id header")
	}
}

func TestPostsAndReplies(t *testing.T) {
	_, client := newBackend(t)
	ctx := context.Background()

	replies, err := client.GenerateReplies(ctx, "love your shop", "instagram", false)
	if err != nil {
		t.Fatalf("GenerateReplies failed: %v", err)
	}
	if len(replies) == 0 {
		t.Fatal("Expected replies")
	}
	history, err := client.FetchReplyHistory(ctx)
	if err != nil {
		t.Fatalf("FetchReplyHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].OriginalMessage != "love your shop" {
		t.Errorf("Unexpected history: %+v", history)
	}

	id, err := client.SchedulePost(ctx, model.NewPost{Content: "launch day", Platform: "x", ScheduledFor: "2025-02-01T09:00:00Z"})
	if err != nil {
		t.Fatalf("SchedulePost failed: %v", err)
	}
	if err := client.DeleteScheduledPost(ctx, id); err != nil {
		t.Fatalf("DeleteScheduledPost failed: %v", err)
	}
	if err := client.DeleteScheduledPost(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
