// Package calendar provides a client for interacting with the Google Calendar API.
//
// All operations target the authenticated user's primary calendar.
// Updates are sparse patches with tri-state field semantics: a field
// can be left untouched, cleared, or set to a new value (including the
// empty string).
//
// Example usage:
//
//	httpClient := creds.HTTPClient(ctx)
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	events, err := client.ListEvents(ctx, 10, "", "")
package calendar
