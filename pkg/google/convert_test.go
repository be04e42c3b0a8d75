package google

import (
	"strings"
	"testing"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"google.golang.org/api/calendar/v3"
)

func strPtr(s string) *string { return &s }

func sampleTask() *model.CalendarTask {
	day := 3
	return &model.CalendarTask{
		ID:              "12345678-1234-1234-1234-123456789012",
		Title:           "Behind the scenes",
		TaskType:        "post",
		Platform:        strPtr("instagram"),
		Mood:            strPtr("playful"),
		TemplateContent: strPtr("Show your desk setup"),
		ScheduledDate:   dates.NewDate(2025, 1, 5),
		OriginalDate:    dates.NewDate(2025, 1, 3),
		DayNumber:       &day,
	}
}

func TestConvertTaskToCalendarEvent(t *testing.T) {
	task := sampleTask()
	event, err := ConvertTaskToCalendarEvent(task, dates.NewDate(2025, 1, 5), "4")
	if err != nil {
		t.Fatalf("ConvertTaskToCalendarEvent failed: %v", err)
	}

	if event.ExtendedProperties == nil || event.ExtendedProperties.Private == nil {
		t.Fatal("ExtendedProperties or Private map is nil")
	}
	if id, ok := TaskIDFromEvent(event); !ok || id != task.ID {
		t.Errorf("Expected %s id %s, got %v", TaskIDProperty, task.ID, id)
	}
	if event.Start.Date != "2025-01-05" || event.End.Date != "2025-01-06" {
		t.Errorf("Expected all-day event on 2025-01-05, got %s..%s", event.Start.Date, event.End.Date)
	}
	if event.Summary != "Behind the scenes" {
		t.Errorf("Expected plain summary, got %q", event.Summary)
	}
	if event.ColorId != "4" {
		t.Errorf("Expected color 4, got %q", event.ColorId)
	}

	for _, want := range []string{"#instagram", "#post", "Day: 3", "Mood: playful", "Pushed: 2 day(s) from 2025-01-03", "Template:\nShow your desk setup"} {
		if !strings.Contains(event.Description, want) {
			t.Errorf("Expected description to contain %q, got: %s", want, event.Description)
		}
	}
}

func TestConvertRequiresScheduledDate(t *testing.T) {
	task := sampleTask()
	task.ScheduledDate = dates.Date{}
	if _, err := ConvertTaskToCalendarEvent(task, dates.NewDate(2025, 1, 5), "1"); err == nil {
		t.Error("Expected error for task without a scheduled date")
	}
	if _, err := ConvertTaskToCalendarEvent(nil, dates.NewDate(2025, 1, 5), "1"); err == nil {
		t.Error("Expected error for nil task")
	}
}

func TestEventSummary(t *testing.T) {
	today := dates.NewDate(2025, 1, 6)

	task := sampleTask()
	if got := EventSummary(task, today); got != "! Behind the scenes" {
		t.Errorf("Expected overdue marker, got %q", got)
	}

	task.IsCompleted = true
	task.CompletedAt = strPtr("2025-01-05T10:00:00Z")
	task.GeneratedContent = strPtr("Here is my desk")
	if got := EventSummary(task, today); got != "✓ Behind the scenes" {
		t.Errorf("Expected completed marker, got %q", got)
	}

	event, err := ConvertTaskToCalendarEvent(task, today, "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(event.Description, "Content:\nHere is my desk") || strings.Contains(event.Description, "Template:") {
		t.Errorf("Expected generated content instead of template, got: %s", event.Description)
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	task := sampleTask()
	existing, _ := ConvertTaskToCalendarEvent(task, dates.NewDate(2025, 1, 5), "4")

	if patch := EventNeedsUpdate(existing, existing); patch != nil {
		t.Errorf("Expected no patch for identical events, got %+v", patch)
	}

	task.ScheduledDate = task.ScheduledDate.AddDays(1)
	target, _ := ConvertTaskToCalendarEvent(task, dates.NewDate(2025, 1, 5), "4")
	patch := EventNeedsUpdate(existing, target)
	if patch == nil {
		t.Fatal("Expected a patch after the task moved")
	}
	if patch.Start == nil || patch.Start.Date != "2025-01-06" {
		t.Errorf("Expected start patch to 2025-01-06, got %+v", patch.Start)
	}
	if patch.Summary != "" || patch.ColorId != "" {
		t.Errorf("Expected only changed fields in patch, got %+v", patch)
	}
}

func TestTaskIDFromEventMissing(t *testing.T) {
	if _, ok := TaskIDFromEvent(&calendar.Event{}); ok {
		t.Error("Expected no task id on a foreign event")
	}
}
