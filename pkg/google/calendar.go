package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/harrisonrobin/schedalize/pkg/colors"
	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/index"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// CalendarClient mirrors calendar tasks into one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	palette    *colors.Palette
}

// NewCalendarClient wraps srv. idx and palette may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, palette *colors.Palette) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, palette: palette}
}

// SyncStats counts what a Sync did.
type SyncStats struct {
	Created   int
	Updated   int
	Unchanged int
	Removed   int
	Failed    int
}

func (s SyncStats) String() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged, %d removed, %d failed",
		s.Created, s.Updated, s.Unchanged, s.Removed, s.Failed)
}

// Sync upserts an event for every task. With prune set, indexed events whose
// task is no longer in tasks are deleted. A failing task is logged and
// counted; Sync only returns an error when the context is done.
func (c *CalendarClient) Sync(ctx context.Context, tasks []model.CalendarTask, today dates.Date, prune bool) (SyncStats, error) {
	var stats SyncStats
	seen := make(map[string]bool, len(tasks))

	for i := range tasks {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		task := &tasks[i]
		seen[task.ID] = true

		outcome, err := c.SyncEvent(ctx, task, today)
		if err != nil {
			log.Printf("[mirror] could not sync task %s (%s): %v", task.ID, task.Title, err)
			stats.Failed++
			continue
		}
		switch outcome {
		case Created:
			stats.Created++
		case Updated:
			stats.Updated++
		default:
			stats.Unchanged++
		}
	}

	if prune && c.index != nil {
		for _, taskID := range c.index.TaskIDs() {
			if seen[taskID] {
				continue
			}
			if err := c.DeleteEvent(ctx, c.index.EventID(taskID)); err != nil && !isNotFound(err) {
				log.Printf("[mirror] could not remove event for task %s: %v", taskID, err)
				stats.Failed++
				continue
			}
			c.index.Unlink(taskID)
			stats.Removed++
		}
	}
	return stats, nil
}

// Outcome is what SyncEvent did to the calendar.
type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Updated
)

// SyncEvent creates a new event or patches the existing one for task.
func (c *CalendarClient) SyncEvent(ctx context.Context, task *model.CalendarTask, today dates.Date) (Outcome, error) {
	colorID := colors.NoPlatformColor
	if c.palette != nil && task.Platform != nil {
		colorID = c.palette.ColorID(*task.Platform)
	}
	event, err := ConvertTaskToCalendarEvent(task, today, colorID)
	if err != nil {
		return Unchanged, err
	}

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.EventID(task.ID); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}

	if existing == nil {
		existing, err = c.GetEventByTaskID(ctx, task.ID)
		if err != nil {
			return Unchanged, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch := EventNeedsUpdate(existing, event)
		if patch == nil {
			c.remember(task.ID, existing.Id)
			return Unchanged, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return Unchanged, err
		}
		c.remember(task.ID, updated.Id)
		return Updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return Unchanged, err
	}
	c.remember(task.ID, created.Id)
	return Created, nil
}

func (c *CalendarClient) remember(taskID, eventID string) {
	if c.index != nil {
		c.index.Link(taskID, eventID)
	}
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventByTaskID searches for the event carrying the task's extended property.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}
