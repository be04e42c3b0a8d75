package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/colors"
	"github.com/harrisonrobin/schedalize/pkg/index"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Scopes are requested by `schedalize auth google` and used by the mirror.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// NewClient connects to Google Calendar with the cached OAuth token and
// resolves calendarName to its id.
func NewClient(ctx context.Context, calendarName string, idx *index.EventIndex, palette *colors.Palette) (*CalendarClient, error) {
	client, err := auth.GoogleClient(ctx, Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID, err := FindCalendarID(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx, palette), nil
}

// FindCalendarID looks calendarName up in the user's calendar list.
func FindCalendarID(ctx context.Context, srv *calendar.Service, calendarName string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", calendarName)
}
