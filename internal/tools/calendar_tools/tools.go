package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsmode/workspace-mcp/internal/calendar"
	"github.com/opsmode/workspace-mcp/internal/registry"
	"github.com/opsmode/workspace-mcp/internal/server"
	"github.com/opsmode/workspace-mcp/internal/tools/common"
)

// defaultMaxResults applies when list_events is called without maxResults.
const defaultMaxResults = 10

// Register adds all Calendar tools to the registry.
func Register(reg *registry.Registry, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List upcoming events from the primary calendar"),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start of the time range (RFC3339, default: now)"),
		),
		mcp.WithString("timeMax",
			mcp.Description("End of the time range (RFC3339)"),
		),
	)
	reg.Add(listEventsTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, args, sc)
	})

	createEventTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create a new event on the primary calendar"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339, e.g., '2025-01-15T14:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339)"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Attendee email addresses"),
		),
	)
	reg.Add(createEventTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, args, sc)
	})

	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update an event on the primary calendar. Omitted fields stay unchanged; a JSON null clears the field."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("start",
			mcp.Description("New start time (RFC3339)"),
		),
		mcp.WithString("end",
			mcp.Description("New end time (RFC3339)"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Replacement attendee email addresses"),
		),
	)
	reg.Add(updateEventTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleUpdateEvent(ctx, args, sc)
	})

	deleteEventTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete an event from the primary calendar"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)
	reg.Add(deleteEventTool, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return handleDeleteEvent(ctx, args, sc)
	})

	return nil
}

func handleListEvents(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	maxResults := common.IntArg(args, "maxResults", defaultMaxResults)
	timeMin := common.StringArg(args, "timeMin", "")
	timeMax := common.StringArg(args, "timeMax", "")

	events, err := sc.CalendarService().ListEvents(ctx, maxResults, timeMin, timeMax)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error listing events: %v", err)), nil
	}

	return textResult(events)
}

func handleCreateEvent(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	attendees, err := common.ParseStringOrArray(args["attendees"], "attendees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := calendar.EventInput{
		Summary:     common.StringArg(args, "summary", ""),
		Location:    common.StringArg(args, "location", ""),
		Description: common.StringArg(args, "description", ""),
		Start:       common.StringArg(args, "start", ""),
		End:         common.StringArg(args, "end", ""),
		Attendees:   attendees,
	}

	created, err := sc.CalendarService().CreateEvent(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error creating event: %v", err)), nil
	}

	return textResult(created)
}

func handleUpdateEvent(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID := common.StringArg(args, "eventId", "")

	patch := calendar.EventPatch{}
	for _, f := range []struct {
		key string
		dst *calendar.OptionalString
	}{
		{"summary", &patch.Summary},
		{"location", &patch.Location},
		{"description", &patch.Description},
		{"start", &patch.Start},
		{"end", &patch.End},
	} {
		opt, err := optionalStringArg(args, f.key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = opt
	}

	if raw, ok := args["attendees"]; ok {
		if raw == nil {
			patch.Attendees = calendar.OptionalStrings{Set: true, Null: true}
		} else {
			values, err := common.ParseStringOrArray(raw, "attendees")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if values == nil {
				values = []string{}
			}
			patch.Attendees = calendar.OptionalStrings{Set: true, Values: values}
		}
	}

	updated, err := sc.CalendarService().UpdateEvent(ctx, eventID, patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error updating event: %v", err)), nil
	}

	return textResult(updated)
}

func handleDeleteEvent(ctx context.Context, args map[string]any, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID := common.StringArg(args, "eventId", "")

	if err := sc.CalendarService().DeleteEvent(ctx, eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error deleting event: %v", err)), nil
	}

	return textResult(struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}{ID: eventID, Status: "deleted"})
}

// optionalStringArg extracts a tri-state string field: absent leaves
// the field untouched, JSON null clears it, a string value sets it
// (the empty string is a value, not an omission).
func optionalStringArg(args map[string]any, key string) (calendar.OptionalString, error) {
	v, ok := args[key]
	if !ok {
		return calendar.OptionalString{}, nil
	}
	if v == nil {
		return calendar.Null(), nil
	}
	s, ok := v.(string)
	if !ok {
		return calendar.OptionalString{}, fmt.Errorf("%s must be a string or null", key)
	}
	return calendar.String(s), nil
}

// textResult marshals payload as pretty-printed JSON inside a text envelope.
func textResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
