package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/schedalize/pkg/model"
)

// ItemType tags where a history item came from.
type ItemType int

const (
	Reply ItemType = iota
	Task
	Scheduled
)

// AllTypes lists every ItemType in feed source order.
var AllTypes = []ItemType{Reply, Task, Scheduled}

// RGB is a display color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

func (t ItemType) String() string {
	switch t {
	case Reply:
		return "reply"
	case Task:
		return "task"
	case Scheduled:
		return "scheduled"
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// Label is the plural filter-chip label.
func (t ItemType) Label() string {
	switch t {
	case Reply:
		return "Replies"
	case Task:
		return "Tasks"
	case Scheduled:
		return "Scheduled"
	}
	return t.String()
}

func (t ItemType) Icon() string {
	switch t {
	case Reply:
		return "bubble.left.and.bubble.right"
	case Task:
		return "calendar"
	case Scheduled:
		return "clock"
	}
	return ""
}

func (t ItemType) Color() RGB {
	switch t {
	case Reply:
		return RGB{0.39, 0.40, 0.95}
	case Task:
		return RGB{0.06, 0.73, 0.51}
	case Scheduled:
		return RGB{0.96, 0.62, 0.04}
	}
	return RGB{0.42, 0.47, 0.55}
}

// ParseType accepts "reply", "task" or "scheduled" (plural forms too).
func ParseType(s string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reply", "replies":
		return Reply, nil
	case "task", "tasks":
		return Task, nil
	case "scheduled", "post", "posts":
		return Scheduled, nil
	}
	return 0, fmt.Errorf("unknown history type %q", s)
}

// Details is the origin-specific part of an Item. Exactly one of
// ReplyDetails, TaskDetails or ScheduledDetails.
type Details interface {
	itemType() ItemType
}

type ReplyDetails struct {
	OriginalMessage string
	Replies         []model.GeneratedReply
}

type TaskDetails struct {
	Title     string
	DayNumber *int
	Mood      *string
}

type ScheduledDetails struct {
	// ScheduledFor is nil when the backend's schedule string could not be parsed.
	ScheduledFor *time.Time
	Status       string
}

func (ReplyDetails) itemType() ItemType     { return Reply }
func (TaskDetails) itemType() ItemType      { return Task }
func (ScheduledDetails) itemType() ItemType { return Scheduled }

// Item is one entry of the unified history feed.
type Item struct {
	ID             string
	Content        string
	Platform       string
	CreatedAt      time.Time
	PostedAt       *time.Time
	PostedPlatform *string
	Details        Details
}

// Type is derived from Details, so the tag cannot disagree with the payload.
func (i Item) Type() ItemType {
	return i.Details.itemType()
}
