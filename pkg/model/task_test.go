package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/harrisonrobin/schedalize/pkg/dates"
)

func TestDecodeCalendarTask(t *testing.T) {
	input := `{
		"task_id": "t-1",
		"title": "Introduce yourself",
		"task_type": "post",
		"platform": "instagram",
		"template_content": "Share who you are",
		"scheduled_date": "2025-01-03",
		"original_date": "2025-01-01",
		"day_number": 1,
		"is_completed": true,
		"completed_at": "2025-01-03T10:00:00.123Z",
		"generated_content": "Hi, I'm new here"
	}`

	var task CalendarTask
	if err := json.Unmarshal([]byte(input), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.ID != "t-1" {
		t.Errorf("Expected ID t-1, got %s", task.ID)
	}
	if task.ScheduledDate != dates.NewDate(2025, 1, 3) {
		t.Errorf("Expected scheduled 2025-01-03, got %s", task.ScheduledDate)
	}
	if task.OriginalDate != dates.NewDate(2025, 1, 1) {
		t.Errorf("Expected original 2025-01-01, got %s", task.OriginalDate)
	}
	if task.Day() != 1 {
		t.Errorf("Expected day 1, got %d", task.Day())
	}
	if task.DaysPushed() != 2 {
		t.Errorf("Expected 2 days pushed, got %d", task.DaysPushed())
	}
	if task.Description != nil {
		t.Errorf("Expected nil description, got %q", *task.Description)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected valid task, got %v", err)
	}
}

func TestValidateCompletedNeedsInstant(t *testing.T) {
	task := CalendarTask{ID: "t-2", IsCompleted: true}
	if err := task.Validate(); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask, got %v", err)
	}
	if err := (&CalendarTask{}).Validate(); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for missing id, got %v", err)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := NewDateRange(dates.NewDate(2025, 1, 1), 30)
	tests := []struct {
		day  dates.Date
		want bool
	}{
		{dates.NewDate(2024, 12, 31), false},
		{dates.NewDate(2025, 1, 1), true},
		{dates.NewDate(2025, 1, 31), true},
		{dates.NewDate(2025, 2, 1), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.day); got != tt.want {
			t.Errorf("Contains(%s): expected %v, got %v", tt.day, tt.want, got)
		}
	}

	open := DateRange{Start: dates.NewDate(2025, 1, 1)}
	if !open.Contains(dates.NewDate(2099, 1, 1)) {
		t.Error("Expected open-ended range to contain a far future day")
	}
}
