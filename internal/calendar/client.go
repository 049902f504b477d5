package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// primaryCalendar is the calendar all operations target.
const primaryCalendar = "primary"

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client on top of an OAuth-authenticated
// HTTP client. Extra options are passed through to the service
// constructor, which lets tests point the client at a fake API server.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListEvents lists upcoming events on the primary calendar, expanded
// to single instances and ordered by start time. timeMin defaults to
// now when empty; timeMax is optional. Events are returned in the
// order the API produced them.
func (c *Client) ListEvents(ctx context.Context, maxResults int64, timeMin, timeMax string) ([]EventSummary, error) {
	if timeMin == "" {
		timeMin = time.Now().Format(time.RFC3339)
	}

	call := c.svc.Events.List(primaryCalendar).
		TimeMin(timeMin).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults)

	if timeMax != "" {
		call = call.TimeMax(timeMax)
	}

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(events.Items))
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// CreateEvent creates a new event on the primary calendar and returns
// the created event as the API reported it.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*calendar.Event, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Location:    input.Location,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start,
			TimeZone: localTimeZone(),
		},
		End: &calendar.EventDateTime{
			DateTime: input.End,
			TimeZone: localTimeZone(),
		},
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, 0, len(input.Attendees))
		for _, email := range input.Attendees {
			attendees = append(attendees, &calendar.EventAttendee{Email: email})
		}
		event.Attendees = attendees
	}

	created, err := c.svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEvent applies a sparse patch to an event. Only fields the
// patch mentions are sent; null clears a field server-side and an
// explicit empty value is forced onto the wire. An empty patch is a
// valid request that leaves the event unchanged.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, patch EventPatch) (*calendar.Event, error) {
	event := buildPatchBody(patch)

	updated, err := c.svc.Events.Patch(primaryCalendar, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEvent removes an event from the primary calendar.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.svc.Events.Delete(primaryCalendar, eventID).Context(ctx).Do()
}

// buildPatchBody translates a tri-state patch into the sparse event
// body the Patch API expects. Cleared fields go into NullFields;
// explicitly empty values go into ForceSendFields so the JSON encoder
// does not drop them.
func buildPatchBody(patch EventPatch) *calendar.Event {
	event := &calendar.Event{}

	applyString := func(field string, opt OptionalString, dst *string) {
		if !opt.Set {
			return
		}
		if opt.Null {
			event.NullFields = append(event.NullFields, field)
			return
		}
		*dst = opt.Value
		if opt.Value == "" {
			event.ForceSendFields = append(event.ForceSendFields, field)
		}
	}

	applyString("Summary", patch.Summary, &event.Summary)
	applyString("Location", patch.Location, &event.Location)
	applyString("Description", patch.Description, &event.Description)

	applyTime := func(field string, opt OptionalString, dst **calendar.EventDateTime) {
		if !opt.Set {
			return
		}
		if opt.Null {
			event.NullFields = append(event.NullFields, field)
			return
		}
		*dst = &calendar.EventDateTime{
			DateTime: opt.Value,
			TimeZone: localTimeZone(),
		}
	}

	applyTime("Start", patch.Start, &event.Start)
	applyTime("End", patch.End, &event.End)

	if patch.Attendees.Set {
		if patch.Attendees.Null {
			event.NullFields = append(event.NullFields, "Attendees")
		} else {
			attendees := make([]*calendar.EventAttendee, 0, len(patch.Attendees.Values))
			for _, email := range patch.Attendees.Values {
				attendees = append(attendees, &calendar.EventAttendee{Email: email})
			}
			event.Attendees = attendees
			if len(attendees) == 0 {
				event.ForceSendFields = append(event.ForceSendFields, "Attendees")
			}
		}
	}

	return event
}

// localTimeZone returns the IANA name of the process time zone, or
// UTC when the zone has no usable name.
func localTimeZone() string {
	name := time.Local.String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
