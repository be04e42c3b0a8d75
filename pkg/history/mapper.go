package history

import (
	"time"

	"github.com/harrisonrobin/schedalize/pkg/model"
)

// DateParser reports ok=false for strings it cannot read.
type DateParser interface {
	Parse(s string) (time.Time, bool)
}

func parseOptional(p DateParser, s *string) *time.Time {
	if s == nil {
		return nil
	}
	if t, ok := p.Parse(*s); ok {
		return &t
	}
	return nil
}

// FromReply maps a reply record; the first suggestion becomes the content.
func FromReply(r model.ReplyRecord, p DateParser, now time.Time) Item {
	content := ""
	if len(r.GeneratedReplies) > 0 {
		content = r.GeneratedReplies[0].Text
	}
	createdAt, ok := p.Parse(r.CreatedAt)
	if !ok {
		createdAt = now
	}
	return Item{
		ID:             r.ID,
		Content:        content,
		Platform:       r.Platform,
		CreatedAt:      createdAt,
		PostedAt:       parseOptional(p, r.PostedAt),
		PostedPlatform: r.PostedPlatform,
		Details: ReplyDetails{
			OriginalMessage: r.OriginalMessage,
			Replies:         r.GeneratedReplies,
		},
	}
}

// FromTask maps a completed task that carries generated content. ok is
// false for tasks that do not belong in history. CreatedAt comes from
// created_at, or the scheduled day when created_at is absent, else now.
func FromTask(t model.CalendarTask, p DateParser, now time.Time) (Item, bool) {
	if !t.IsCompleted || t.GeneratedContent == nil {
		return Item{}, false
	}

	createdAt := now
	if t.CreatedAt != nil {
		if at, ok := p.Parse(*t.CreatedAt); ok {
			createdAt = at
		}
	} else if at, ok := p.Parse(t.ScheduledDate.String()); ok {
		createdAt = at
	}

	platform := ""
	if t.Platform != nil {
		platform = *t.Platform
	}
	return Item{
		ID:        t.ID,
		Content:   *t.GeneratedContent,
		Platform:  platform,
		CreatedAt: createdAt,
		Details: TaskDetails{
			Title:     t.Title,
			DayNumber: t.DayNumber,
			Mood:      t.Mood,
		},
	}, true
}

// FromScheduled maps a scheduled post.
func FromScheduled(s model.ScheduledPost, p DateParser, now time.Time) Item {
	createdAt, ok := p.Parse(s.CreatedAt)
	if !ok {
		createdAt = now
	}
	return Item{
		ID:             s.ID,
		Content:        s.Content,
		Platform:       s.Platform,
		CreatedAt:      createdAt,
		PostedAt:       parseOptional(p, s.PostedAt),
		PostedPlatform: s.PostedPlatform,
		Details: ScheduledDetails{
			ScheduledFor: parseOptional(p, &s.ScheduledFor),
			Status:       s.Status,
		},
	}
}
