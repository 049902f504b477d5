package calendar

import (
	calendar "google.golang.org/api/calendar/v3"
)

// EventSummary is the projection of a calendar event returned by the
// list operation. Start and end keep the provider shape, so all-day
// events (date only) and timed events (dateTime) both survive the
// round trip to JSON.
type EventSummary struct {
	ID       string                  `json:"id"`
	Summary  string                  `json:"summary"`
	Start    *calendar.EventDateTime `json:"start,omitempty"`
	End      *calendar.EventDateTime `json:"end,omitempty"`
	Location string                  `json:"location,omitempty"`
}

// EventInput represents the input for creating a calendar event.
// Start and End are RFC3339 timestamps.
type EventInput struct {
	Summary     string
	Location    string
	Description string
	Start       string
	End         string
	Attendees   []string
}

// OptionalString is a tri-state string field for sparse updates.
// The zero value means the field was not mentioned and stays
// untouched. Set with Null clears the field on the server; Set with a
// Value (including the empty string) writes that value.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

// String returns an OptionalString carrying v.
func String(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// Null returns an OptionalString that clears the field.
func Null() OptionalString {
	return OptionalString{Set: true, Null: true}
}

// OptionalStrings is the tri-state counterpart for string-list fields.
type OptionalStrings struct {
	Set    bool
	Null   bool
	Values []string
}

// EventPatch describes a sparse update to an event. Fields left at
// their zero value are not sent to the server at all.
type EventPatch struct {
	Summary     OptionalString
	Location    OptionalString
	Description OptionalString
	Start       OptionalString
	End         OptionalString
	Attendees   OptionalStrings
}

// IsEmpty reports whether the patch mentions no fields.
func (p EventPatch) IsEmpty() bool {
	return !p.Summary.Set && !p.Location.Set && !p.Description.Set &&
		!p.Start.Set && !p.End.Set && !p.Attendees.Set
}

// toEventSummary projects a provider event onto the summary shape.
func toEventSummary(event *calendar.Event) EventSummary {
	return EventSummary{
		ID:       event.Id,
		Summary:  event.Summary,
		Start:    event.Start,
		End:      event.End,
		Location: event.Location,
	}
}
