// Package tasks owns the calendar task lifecycle: listing by date window,
// importing a template set, pushing incomplete work forward, generating
// content and completing tasks. The remote store is reached through Gateway.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

// DefaultWindowDays is how far ahead ListTasks looks when no window is given.
const DefaultWindowDays = 30

// ErrPushRejected is returned when the backend answers a push without success.
var ErrPushRejected = errors.New("push forward rejected by backend")

// Gateway is the subset of the remote API the engine needs.
type Gateway interface {
	FetchTasks(ctx context.Context, q model.TaskQuery) ([]model.CalendarTask, error)
	FetchTodayTasks(ctx context.Context) ([]model.CalendarTask, error)
	ImportTemplates(ctx context.Context, start dates.Date, templates []model.Template) (int, error)
	PushTasks(ctx context.Context, from *dates.Date) (*model.PushResult, error)
	CompleteTask(ctx context.Context, taskID string, generatedContent *string) (*model.CalendarTask, error)
	GenerateTaskContent(ctx context.Context, taskID string, opts model.GenerateOptions) (*model.GeneratedContent, error)
}

type Engine struct {
	gw         Gateway
	templates  []model.Template
	windowDays int
	loc        *time.Location
	now        func() time.Time
}

type Option func(*Engine)

// WithTemplates sets the ordered template set used by ImportTemplates.
func WithTemplates(templates []model.Template) Option {
	return func(e *Engine) { e.templates = templates }
}

// WithWindowDays sets the default ListTasks window length.
func WithWindowDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.windowDays = days
		}
	}
}

// WithLocation sets the zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(gw Gateway, opts ...Option) *Engine {
	e := &Engine{
		gw:         gw,
		windowDays: DefaultWindowDays,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the engine's current calendar day.
func (e *Engine) Today() dates.Date {
	return dates.DateOf(e.now().In(e.loc))
}

// DefaultWindow is [today, today+window days].
func (e *Engine) DefaultWindow() model.DateRange {
	return model.NewDateRange(e.Today(), e.windowDays)
}

// Templates returns the template set ImportTemplates sends.
func (e *Engine) Templates() []model.Template {
	return e.templates
}

// ListTasks returns tasks scheduled inside window (the default window when
// nil), dropping completed ones unless includeCompleted is set.
func (e *Engine) ListTasks(ctx context.Context, window *model.DateRange, includeCompleted bool) ([]model.CalendarTask, error) {
	w := e.DefaultWindow()
	if window != nil {
		w = *window
	}

	fetched, err := e.gw.FetchTasks(ctx, model.TaskQuery{Range: &w, IncludeCompleted: includeCompleted})
	if err != nil {
		return nil, err
	}

	out := make([]model.CalendarTask, 0, len(fetched))
	for _, t := range fetched {
		if !w.Contains(t.ScheduledDate) {
			continue
		}
		if !includeCompleted && t.IsCompleted {
			continue
		}
		out = append(out, t)
	}
	Sort(out)
	return out, nil
}

// ListTodayTasks returns the backend's tasks for today. "Today" is decided
// by the server's time zone.
func (e *Engine) ListTodayTasks(ctx context.Context) ([]model.CalendarTask, error) {
	tasks, err := e.gw.FetchTodayTasks(ctx)
	if err != nil {
		return nil, err
	}
	Sort(tasks)
	return tasks, nil
}

// ImportTemplates creates one task per template, template i landing on
// start+i with day number i+1. A zero start means today. Calling it twice
// imports the set twice.
func (e *Engine) ImportTemplates(ctx context.Context, start dates.Date) (int, error) {
	if len(e.templates) == 0 {
		return 0, nil
	}
	if start.IsZero() {
		start = e.Today()
	}
	return e.gw.ImportTemplates(ctx, start, e.templates)
}

// PushSummary describes the outcome of a push-forward.
type PushSummary struct {
	Count   int
	Tasks   []model.PushedTask
	Message string
}

// PushForward moves every incomplete task one calendar day later. It either
// succeeds as a whole or fails; after a failure callers should re-fetch.
func (e *Engine) PushForward(ctx context.Context) (*PushSummary, error) {
	res, err := e.gw.PushTasks(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", ErrPushRejected, res.Message)
	}

	count := res.PushedCount
	if count == 0 {
		count = len(res.Tasks)
	}
	msg := res.Message
	if msg == "" {
		msg = Summarize(count)
	}
	return &PushSummary{Count: count, Tasks: res.Tasks, Message: msg}, nil
}

// Summarize renders a push count for people.
func Summarize(count int) string {
	switch count {
	case 0:
		return "No incomplete tasks to push"
	case 1:
		return "Pushed 1 task forward by one day"
	}
	return fmt.Sprintf("Pushed %d tasks forward by one day", count)
}

// GenerateContent asks the backend to write content for a task and returns
// the text. The caller's copy of the task is left alone; persist the text
// with CompleteTask or re-fetch to see it.
func (e *Engine) GenerateContent(ctx context.Context, taskID string, opts model.GenerateOptions) (string, error) {
	res, err := e.gw.GenerateTaskContent(ctx, taskID, opts)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// CompleteTask marks a task done, optionally attaching generated content.
func (e *Engine) CompleteTask(ctx context.Context, taskID string, generatedContent *string) (*model.CalendarTask, error) {
	return e.gw.CompleteTask(ctx, taskID, generatedContent)
}

// Sort orders tasks by scheduled day, then day number, keeping input order on ties.
func Sort(tasks []model.CalendarTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if c := tasks[i].ScheduledDate.Compare(tasks[j].ScheduledDate); c != 0 {
			return c < 0
		}
		return tasks[i].Day() < tasks[j].Day()
	})
}

// Split separates incomplete from completed tasks, preserving order.
func Split(tasks []model.CalendarTask) (incomplete, completed []model.CalendarTask) {
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, completed
}
