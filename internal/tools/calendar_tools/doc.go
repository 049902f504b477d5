// Package calendar_tools provides MCP (Model Context Protocol) tools for Google Calendar operations.
//
// Four tools cover the primary calendar: list_events, create_event,
// update_event, and delete_event. Updates use tri-state field
// semantics: omitted fields stay unchanged, JSON null clears a field,
// and any supplied value (including the empty string) is written.
package calendar_tools
