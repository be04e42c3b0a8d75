package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

const tableFile = "pending_tasks.json"

type Entry struct {
	Title     string     `json:"title"`
	Scheduled dates.Date `json:"scheduled"`
}

// Table tracks incomplete tasks that were not yet overdue when last seen, so
// the next check can report the ones that slipped in between.
type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "schedalize", tableFile), nil
}

// NewTable opens the table at path, starting empty when the file is absent.
func NewTable(path string) (*Table, error) {
	t := &Table{
		Path:    path,
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(t); err != nil {
		return err
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	return nil
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Track records every incomplete task scheduled today or later and forgets
// completed ones. Tasks already overdue are left to Sweep.
func (t *Table) Track(tasks []model.CalendarTask, today dates.Date) {
	for _, task := range tasks {
		switch {
		case task.IsCompleted:
			t.Remove(task.ID)
		case task.ScheduledDate.IsZero() || task.ScheduledDate.Before(today):
			continue
		default:
			t.Update(task.ID, task.Title, task.ScheduledDate)
		}
	}
}

func (t *Table) Update(taskID, title string, scheduled dates.Date) {
	if scheduled.IsZero() {
		t.Remove(taskID)
		return
	}
	old, exists := t.Entries[taskID]
	if !exists || !old.Scheduled.Equal(scheduled) || old.Title != title {
		t.Entries[taskID] = Entry{Title: title, Scheduled: scheduled}
		t.dirty = true
	}
}

func (t *Table) Remove(taskID string) {
	if _, exists := t.Entries[taskID]; exists {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep returns entries scheduled before today and removes them.
func (t *Table) Sweep(today dates.Date) []Entry {
	var swept []Entry
	for id, entry := range t.Entries {
		if entry.Scheduled.Before(today) {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	return swept
}
