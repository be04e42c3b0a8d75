package backend

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrAlreadyCompleted = errors.New("task already completed")
)

// Store is an in-memory, per-user record store.
type Store struct {
	mu      sync.RWMutex
	tasks   map[string][]model.CalendarTask  // userID -> tasks in creation order
	replies map[string][]model.ReplyRecord   // userID -> replies, newest last
	posts   map[string][]model.ScheduledPost // userID -> posts, newest last
}

func NewStore() *Store {
	return &Store{
		tasks:   make(map[string][]model.CalendarTask),
		replies: make(map[string][]model.ReplyRecord),
		posts:   make(map[string][]model.ScheduledPost),
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Tasks returns the user's tasks matching q, ordered by scheduled day then day number.
func (s *Store) Tasks(userID string, q model.TaskQuery) []model.CalendarTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.CalendarTask
	for _, t := range s.tasks[userID] {
		if !q.IncludeCompleted && t.IsCompleted {
			continue
		}
		if q.Range != nil && !q.Range.Contains(t.ScheduledDate) {
			continue
		}
		out = append(out, t)
	}
	sortTasks(out)
	return out
}

// TasksOn returns every task scheduled on day, completed or not.
func (s *Store) TasksOn(userID string, day dates.Date) []model.CalendarTask {
	return s.Tasks(userID, model.TaskQuery{
		Range:            &model.DateRange{Start: day, End: day},
		IncludeCompleted: true,
	})
}

// Import instantiates templates onto consecutive days starting at start.
// Repeated imports create duplicates.
func (s *Store) Import(userID string, start dates.Date, templates []model.Template, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := timestamp(now)
	for i, tpl := range templates {
		day := start.AddDays(i)
		dayNumber := i + 1
		s.tasks[userID] = append(s.tasks[userID], model.CalendarTask{
			ID:              uuid.NewString(),
			Title:           tpl.Title,
			Description:     tpl.Description,
			TaskType:        tpl.TaskType,
			Platform:        tpl.Platform,
			TemplateContent: tpl.TemplateContent,
			PromptID:        tpl.PromptID,
			Mood:            tpl.Mood,
			ScheduledDate:   day,
			OriginalDate:    day,
			DayNumber:       &dayNumber,
			CreatedAt:       &created,
		})
	}
	return len(templates)
}

// Push moves every incomplete task (on or after from, when given) one day
// forward under a single lock.
func (s *Store) Push(userID string, from *dates.Date) []model.PushedTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	pushed := []model.PushedTask{}
	tasks := s.tasks[userID]
	for i := range tasks {
		t := &tasks[i]
		if t.IsCompleted {
			continue
		}
		if from != nil && t.ScheduledDate.Before(*from) {
			continue
		}
		t.ScheduledDate = t.ScheduledDate.AddDays(1)
		pushed = append(pushed, model.PushedTask{
			ID:            t.ID,
			Title:         t.Title,
			ScheduledDate: t.ScheduledDate,
			OriginalDate:  t.OriginalDate,
		})
	}
	return pushed
}

// Complete marks a task completed at now.
func (s *Store) Complete(userID, taskID string, content *string, now time.Time) (model.CalendarTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(userID, taskID)
	if t == nil {
		return model.CalendarTask{}, ErrTaskNotFound
	}
	if t.IsCompleted {
		return *t, ErrAlreadyCompleted
	}
	completed := timestamp(now)
	t.IsCompleted = true
	t.CompletedAt = &completed
	if content != nil {
		c := *content
		t.GeneratedContent = &c
	}
	return *t, nil
}

// SetGenerated records the latest generated content on a task.
func (s *Store) SetGenerated(userID, taskID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(userID, taskID)
	if t == nil {
		return ErrTaskNotFound
	}
	t.GeneratedContent = &content
	return nil
}

// Task returns a copy of one task.
func (s *Store) Task(userID, taskID string) (model.CalendarTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.find(userID, taskID)
	if t == nil {
		return model.CalendarTask{}, ErrTaskNotFound
	}
	return *t, nil
}

func (s *Store) find(userID, taskID string) *model.CalendarTask {
	tasks := s.tasks[userID]
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i]
		}
	}
	return nil
}

func (s *Store) AddReply(userID string, r model.ReplyRecord) model.ReplyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.replies[userID] = append(s.replies[userID], r)
	return r
}

// Replies returns the user's reply history, newest first.
func (s *Store) Replies(userID string) []model.ReplyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.replies[userID]
	out := make([]model.ReplyRecord, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out
}

func (s *Store) AddPost(userID string, p model.ScheduledPost) model.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.posts[userID] = append(s.posts[userID], p)
	return p
}

// Posts returns the user's scheduled posts in scheduling order.
func (s *Store) Posts(userID string) []model.ScheduledPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.ScheduledPost{}, s.posts[userID]...)
}

func (s *Store) DeletePost(userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.posts[userID]
	for i := range posts {
		if posts[i].ID == postID {
			s.posts[userID] = append(posts[:i], posts[i+1:]...)
			return nil
		}
	}
	return ErrPostNotFound
}

func sortTasks(tasks []model.CalendarTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if c := tasks[i].ScheduledDate.Compare(tasks[j].ScheduledDate); c != 0 {
			return c < 0
		}
		return tasks[i].Day() < tasks[j].Day()
	})
}
