package overdue

import (
	"path/filepath"
	"testing"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

func task(id, scheduled string, completed bool) model.CalendarTask {
	return model.CalendarTask{ID: id, Title: "task " + id, ScheduledDate: dates.MustParseDate(scheduled), IsCompleted: completed}
}

func TestOverdue(t *testing.T) {
	today := dates.NewDate(2025, 3, 10)
	tasks := []model.CalendarTask{
		task("a", "2025-03-09", false),
		task("b", "2025-03-09", true),
		task("c", "2025-03-10", false),
		task("d", "2025-02-01", false),
		{ID: "e"},
	}

	got := Overdue(tasks, today)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("Expected a and d overdue, got %+v", got)
	}
}

func TestTableTrackAndSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), tableFile)
	table, err := NewTable(path)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	monday := dates.NewDate(2025, 3, 10)
	table.Track([]model.CalendarTask{
		task("a", "2025-03-10", false),
		task("b", "2025-03-11", false),
		task("c", "2025-03-09", false),
		task("d", "2025-03-12", true),
	}, monday)
	if len(table.Entries) != 2 {
		t.Fatalf("Expected a and b tracked, got %v", table.Entries)
	}
	if swept := table.Sweep(monday); len(swept) != 0 {
		t.Errorf("Expected nothing overdue on Monday, got %v", swept)
	}
	if err := table.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := NewTable(path)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	swept := reopened.Sweep(monday.AddDays(1))
	if len(swept) != 1 || swept[0].Title != "task a" {
		t.Errorf("Expected task a swept on Tuesday, got %v", swept)
	}
	if _, ok := reopened.Entries["b"]; !ok {
		t.Error("Expected b to remain tracked")
	}
}

func TestTableForgetsCompleted(t *testing.T) {
	table, err := NewTable(filepath.Join(t.TempDir(), tableFile))
	if err != nil {
		t.Fatal(err)
	}
	today := dates.NewDate(2025, 3, 10)
	table.Track([]model.CalendarTask{task("a", "2025-03-12", false)}, today)
	table.Track([]model.CalendarTask{task("a", "2025-03-12", true)}, today)
	if len(table.Entries) != 0 {
		t.Errorf("Expected completed task removed, got %v", table.Entries)
	}
}
