package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/studyplan/pkg/auth"
	"github.com/harrisonrobin/studyplan/pkg/colors"
	"github.com/harrisonrobin/studyplan/pkg/index"
)

// NewClient authenticates and resolves calendarName to its ID.
func NewClient(ctx context.Context, calendarName string, idx *index.EventIndex, cache *colors.ColorCache) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx)
	if err != nil {
		return nil, err
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}
	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}

	if idx != nil {
		idx.Bind(calendarID)
	}
	return NewCalendarClient(apiEvents{srv: srv, calendarID: calendarID}, idx, cache), nil
}
