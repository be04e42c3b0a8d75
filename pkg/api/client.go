package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://social-reply-api-production.up.railway.app"

const maxErrorBody = 64 << 10

// Client talks to the schedalize backend over JSON/HTTP. Every request
// carries the bearer credential from the token source it was built with.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTransport replaces the base round tripper beneath the auth layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if t, ok := c.http.Transport.(*oauth2.Transport); ok {
			t.Base = rt
			return
		}
		c.http.Transport = rt
	}
}

// NewClient returns a Client for baseURL. ts may be nil for unauthenticated use.
func NewClient(baseURL string, ts oauth2.TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{Kind: KindInvalidRequest, Op: "new client", Message: fmt.Sprintf("bad base URL %q", baseURL), Err: err}
	}

	hc := &http.Client{Timeout: 30 * time.Second}
	if ts != nil {
		hc.Transport = &oauth2.Transport{Source: ts, Base: http.DefaultTransport}
	}
	c := &Client{baseURL: u, http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tasksResponse struct {
	Tasks []model.CalendarTask `json:"tasks"`
	Count int                  `json:"count"`
}

type todayResponse struct {
	Tasks []model.CalendarTask `json:"tasks"`
	Count int                  `json:"count"`
	Date  string               `json:"date"`
}

type importRequest struct {
	Templates []model.Template `json:"templates"`
	StartDate *dates.Date      `json:"start_date,omitempty"`
}

type importResponse struct {
	Success       bool `json:"success"`
	ImportedCount int  `json:"imported_count"`
}

type pushRequest struct {
	FromDate *dates.Date `json:"from_date,omitempty"`
}

type completeRequest struct {
	GeneratedContent *string `json:"generated_content,omitempty"`
}

type completeResponse struct {
	Success bool               `json:"success"`
	Task    model.CalendarTask `json:"task"`
}

type historyResponse struct {
	Replies []model.ReplyRecord `json:"replies"`
	Count   int                 `json:"count"`
}

type postsResponse struct {
	Posts []model.ScheduledPost `json:"posts"`
	Count int                   `json:"count"`
}

type generateRepliesRequest struct {
	Message       string  `json:"message"`
	Platform      string  `json:"platform"`
	SenderInfo    *string `json:"sender_info,omitempty"`
	IncludeEmojis *bool   `json:"include_emojis,omitempty"`
}

type generateRepliesResponse struct {
	Replies []model.GeneratedReply `json:"replies"`
}

type schedulePostResponse struct {
	Success      bool   `json:"success"`
	PostID       string `json:"post_id"`
	ScheduledFor string `json:"scheduled_for"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchTasks lists calendar tasks, optionally limited to a date window.
func (c *Client) FetchTasks(ctx context.Context, q model.TaskQuery) ([]model.CalendarTask, error) {
	params := url.Values{}
	if q.Range != nil {
		if !q.Range.Start.IsZero() {
			params.Set("start_date", q.Range.Start.String())
		}
		if !q.Range.End.IsZero() {
			params.Set("end_date", q.Range.End.String())
		}
	}
	params.Set("include_completed", strconv.FormatBool(q.IncludeCompleted))

	var resp tasksResponse
	if err := c.do(ctx, "fetch tasks", http.MethodGet, "/api/v1/calendar/tasks", params, nil, &resp); err != nil {
		return nil, err
	}
	return validateTasks("fetch tasks", resp.Tasks), nil
}

// FetchTodayTasks returns the backend's view of today's tasks, in the server's time zone.
func (c *Client) FetchTodayTasks(ctx context.Context) ([]model.CalendarTask, error) {
	var resp todayResponse
	if err := c.do(ctx, "fetch today tasks", http.MethodGet, "/api/v1/calendar/tasks/today", nil, nil, &resp); err != nil {
		return nil, err
	}
	return validateTasks("fetch today tasks", resp.Tasks), nil
}

// ImportTemplates asks the backend to create one task per template starting at start.
func (c *Client) ImportTemplates(ctx context.Context, start dates.Date, templates []model.Template) (int, error) {
	req := importRequest{Templates: templates}
	if !start.IsZero() {
		req.StartDate = &start
	}
	var resp importResponse
	if err := c.do(ctx, "import templates", http.MethodPost, "/api/v1/calendar/import-templates", nil, req, &resp); err != nil {
		return 0, err
	}
	return resp.ImportedCount, nil
}

// PushTasks advances every incomplete task by one day. from limits the push
// to tasks scheduled on or after that day.
func (c *Client) PushTasks(ctx context.Context, from *dates.Date) (*model.PushResult, error) {
	var resp model.PushResult
	if err := c.do(ctx, "push tasks", http.MethodPost, "/api/v1/calendar/push", nil, pushRequest{FromDate: from}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteTask marks a task completed, optionally storing generated content.
func (c *Client) CompleteTask(ctx context.Context, taskID string, generatedContent *string) (*model.CalendarTask, error) {
	endpoint, err := entityPath("complete task", "/api/v1/calendar/tasks/%s/complete", taskID)
	if err != nil {
		return nil, err
	}
	var resp completeResponse
	if err := c.do(ctx, "complete task", http.MethodPost, endpoint, nil, completeRequest{GeneratedContent: generatedContent}, &resp); err != nil {
		return nil, err
	}
	if err := resp.Task.Validate(); err != nil {
		return nil, &Error{Kind: KindDecoding, Op: "complete task", Err: err}
	}
	return &resp.Task, nil
}

// GenerateTaskContent runs content generation for a task. The task itself is not updated.
func (c *Client) GenerateTaskContent(ctx context.Context, taskID string, opts model.GenerateOptions) (*model.GeneratedContent, error) {
	endpoint, err := entityPath("generate task content", "/api/v1/calendar/tasks/%s/generate", taskID)
	if err != nil {
		return nil, err
	}
	var resp model.GeneratedContent
	if err := c.do(ctx, "generate task content", http.MethodPost, endpoint, nil, opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchReplyHistory lists stored reply generations.
func (c *Client) FetchReplyHistory(ctx context.Context) ([]model.ReplyRecord, error) {
	var resp historyResponse
	if err := c.do(ctx, "fetch reply history", http.MethodGet, "/api/v1/replies/history", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Replies, nil
}

// FetchScheduledPosts lists posts queued for publishing.
func (c *Client) FetchScheduledPosts(ctx context.Context) ([]model.ScheduledPost, error) {
	var resp postsResponse
	if err := c.do(ctx, "fetch scheduled posts", http.MethodGet, "/api/v1/posts/scheduled", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// GenerateReplies asks for reply suggestions to an incoming message.
func (c *Client) GenerateReplies(ctx context.Context, message, platform string, includeEmojis bool) ([]model.GeneratedReply, error) {
	req := generateRepliesRequest{Message: message, Platform: platform, IncludeEmojis: &includeEmojis}
	var resp generateRepliesResponse
	if err := c.do(ctx, "generate replies", http.MethodPost, "/api/v1/replies/generate", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Replies, nil
}

// GeneratePost asks the backend to write a post about a topic. The text is
// returned, not scheduled.
func (c *Client) GeneratePost(ctx context.Context, prompt model.PostPrompt) (*model.GeneratedPost, error) {
	var resp model.GeneratedPost
	if err := c.do(ctx, "generate post", http.MethodPost, "/api/v1/posts/generate-human", nil, prompt, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SchedulePost queues a post and returns its id.
func (c *Client) SchedulePost(ctx context.Context, post model.NewPost) (string, error) {
	var resp schedulePostResponse
	if err := c.do(ctx, "schedule post", http.MethodPost, "/api/v1/posts/schedule", nil, post, &resp); err != nil {
		return "", err
	}
	return resp.PostID, nil
}

// DeleteScheduledPost removes a queued post.
func (c *Client) DeleteScheduledPost(ctx context.Context, postID string) error {
	endpoint, err := entityPath("delete scheduled post", "/api/v1/posts/scheduled/%s", postID)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete scheduled post", http.MethodDelete, endpoint, nil, nil, nil)
}

func entityPath(op, format, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &Error{Kind: KindInvalidRequest, Op: op, Message: "empty id"}
	}
	return fmt.Sprintf(format, url.PathEscape(id)), nil
}

// validateTasks drops rows that break a task invariant so one bad row does
// not hide the rest of the response.
func validateTasks(op string, tasks []model.CalendarTask) []model.CalendarTask {
	valid := tasks[:0]
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			log.Printf("[api] %s: skipping task: %v", op, err)
			continue
		}
		valid = append(valid, tasks[i])
	}
	return valid
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, params url.Values, body, out any) error {
	u, err := c.baseURL.Parse(c.baseURL.Path + endpoint)
	if err != nil {
		return &Error{Kind: KindInvalidRequest, Op: op, Err: err}
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindInvalidRequest, Op: op, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &Error{Kind: KindInvalidRequest, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			return &Error{Kind: KindUnauthorized, Op: op, Err: err}
		}
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecoding, Op: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	e := &Error{Kind: KindServer, Op: op, Status: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case http.StatusNotFound:
		e.Kind = KindNotFound
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error != "" {
		e.Message = er.Error
	} else if e.Kind == KindServer {
		e.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return e
}
