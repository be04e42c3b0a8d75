package model

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/schedalize/pkg/dates"
)

// ErrInvalidTask is returned by Validate for tasks that break a lifecycle invariant.
var ErrInvalidTask = errors.New("invalid calendar task")

// CalendarTask is one unit of scheduled content work tied to a calendar day.
type CalendarTask struct {
	ID              string     `json:"task_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	TaskType        string     `json:"task_type"`
	Platform        *string    `json:"platform,omitempty"`
	TemplateContent *string    `json:"template_content,omitempty"`
	PromptID        *string    `json:"prompt_id,omitempty"`
	Mood            *string    `json:"mood,omitempty"`
	ScheduledDate   dates.Date `json:"scheduled_date"`
	// OriginalDate is the scheduled day at creation; push-forward never touches it.
	OriginalDate     dates.Date `json:"original_date"`
	DayNumber        *int       `json:"day_number,omitempty"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *string    `json:"completed_at,omitempty"`
	GeneratedContent *string    `json:"generated_content,omitempty"`
	CreatedAt        *string    `json:"created_at,omitempty"`
}

// Validate checks the invariants a task received from the backend must hold.
func (t *CalendarTask) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing task_id", ErrInvalidTask)
	}
	if t.IsCompleted && (t.CompletedAt == nil || *t.CompletedAt == "") {
		return fmt.Errorf("%w: task %s is completed without completed_at", ErrInvalidTask, t.ID)
	}
	return nil
}

// DaysPushed is how far the task has moved past its original day.
func (t *CalendarTask) DaysPushed() int {
	if t.OriginalDate.IsZero() || t.ScheduledDate.IsZero() {
		return 0
	}
	return dates.DaysBetween(t.OriginalDate, t.ScheduledDate)
}

// Day returns the task's day number, or 0 when the backend did not assign one.
func (t *CalendarTask) Day() int {
	if t.DayNumber == nil {
		return 0
	}
	return *t.DayNumber
}

// TaskQuery selects tasks on the backend.
type TaskQuery struct {
	Range            *DateRange
	IncludeCompleted bool
}

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start dates.Date
	End   dates.Date
}

// NewDateRange returns the window [start, start+days].
func NewDateRange(start dates.Date, days int) DateRange {
	return DateRange{Start: start, End: start.AddDays(days)}
}

// Contains reports whether d falls inside the window. A zero bound is open.
func (r DateRange) Contains(d dates.Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// PushedTask summarises one task moved by a push-forward.
type PushedTask struct {
	ID            string     `json:"task_id"`
	Title         string     `json:"title"`
	ScheduledDate dates.Date `json:"scheduled_date"`
	OriginalDate  dates.Date `json:"original_date"`
}

// PushResult is the backend's answer to a push-forward.
type PushResult struct {
	Success     bool         `json:"success"`
	PushedCount int          `json:"pushed_count"`
	Tasks       []PushedTask `json:"tasks"`
	Message     string       `json:"message"`
}

// GenerateOptions are passed through to content generation untouched.
type GenerateOptions struct {
	Mood          *string `json:"mood,omitempty"`
	PromptID      *string `json:"prompt_id,omitempty"`
	Length        *string `json:"length,omitempty"`
	IncludeEmojis *bool   `json:"include_emojis,omitempty"`
}

// GeneratedContent is the result of generating content for a task.
type GeneratedContent struct {
	Success    bool    `json:"success"`
	TaskID     string  `json:"task_id"`
	Content    string  `json:"content"`
	Mood       string  `json:"mood"`
	PromptName *string `json:"prompt_name,omitempty"`
	TokensUsed *int    `json:"tokens_used,omitempty"`
}
