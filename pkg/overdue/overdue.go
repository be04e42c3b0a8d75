// Package overdue finds calendar tasks whose day has passed without being
// completed, and remembers which ones were still on time at the last check.
package overdue

import (
	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

// IsOverdue reports whether t is incomplete and scheduled before today.
func IsOverdue(t model.CalendarTask, today dates.Date) bool {
	return !t.IsCompleted && !t.ScheduledDate.IsZero() && t.ScheduledDate.Before(today)
}

// Overdue returns the overdue tasks in input order.
func Overdue(tasks []model.CalendarTask, today dates.Date) []model.CalendarTask {
	var out []model.CalendarTask
	for _, t := range tasks {
		if IsOverdue(t, today) {
			out = append(out, t)
		}
	}
	return out
}
