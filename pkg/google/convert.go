package google

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"github.com/harrisonrobin/schedalize/pkg/overdue"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "schedalize_task_id"

const (
	completedPrefix = "✓"
	overduePrefix   = "!"
)

// EventSummary is the event title: the task title, marked ✓ when completed
// or ! when overdue.
func EventSummary(task *model.CalendarTask, today dates.Date) string {
	switch {
	case task.IsCompleted:
		return fmt.Sprintf("%s %s", completedPrefix, task.Title)
	case overdue.IsOverdue(*task, today):
		return fmt.Sprintf("%s %s", overduePrefix, task.Title)
	}
	return task.Title
}

// ConvertTaskToCalendarEvent renders task as an all-day event on its
// scheduled day.
func ConvertTaskToCalendarEvent(task *model.CalendarTask, today dates.Date, colorID string) (*calendar.Event, error) {
	if task == nil {
		return nil, fmt.Errorf("could not convert nil task")
	}
	if task.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("task has no scheduled date: %s", task.ID)
	}

	var desc strings.Builder
	if task.Platform != nil && *task.Platform != "" {
		fmt.Fprintf(&desc, "#%s ", *task.Platform)
	}
	if task.TaskType != "" {
		fmt.Fprintf(&desc, "#%s", task.TaskType)
	}
	if desc.Len() > 0 {
		desc.WriteString("\n\n")
	}

	if task.DayNumber != nil {
		fmt.Fprintf(&desc, "Day: %d\n", *task.DayNumber)
	}
	if task.Mood != nil && *task.Mood != "" {
		fmt.Fprintf(&desc, "Mood: %s\n", *task.Mood)
	}
	if pushed := task.DaysPushed(); pushed > 0 {
		fmt.Fprintf(&desc, "Pushed: %d day(s) from %s\n", pushed, task.OriginalDate)
	}
	if task.IsCompleted && task.CompletedAt != nil {
		fmt.Fprintf(&desc, "Completed: %s\n", *task.CompletedAt)
	}
	fmt.Fprintf(&desc, "ID: %s\n", task.ID)

	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(&desc, "\n%s\n", *task.Description)
	}
	switch {
	case task.GeneratedContent != nil && *task.GeneratedContent != "":
		fmt.Fprintf(&desc, "\nContent:\n%s\n", *task.GeneratedContent)
	case task.TemplateContent != nil && *task.TemplateContent != "":
		fmt.Fprintf(&desc, "\nTemplate:\n%s\n", *task.TemplateContent)
	}

	event := &calendar.Event{
		Summary:     EventSummary(task, today),
		Description: desc.String(),
		ColorId:     colorID,
		Start: &calendar.EventDateTime{
			Date: task.ScheduledDate.String(),
		},
		// All-day events end on the following day (exclusive).
		End: &calendar.EventDateTime{
			Date: task.ScheduledDate.AddDays(1).String(),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: task.ID,
			},
		},
	}
	return event, nil
}

// EventNeedsUpdate returns a patch with the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}

// TaskIDFromEvent reads the task id an event was created for.
func TaskIDFromEvent(ev *calendar.Event) (string, bool) {
	if ev == nil || ev.ExtendedProperties == nil {
		return "", false
	}
	id, ok := ev.ExtendedProperties.Private[TaskIDProperty]
	return id, ok && id != ""
}
