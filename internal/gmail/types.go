package gmail

// EmailSummary is the projection of a Gmail message returned by list
// and search operations. Header values missing from the message come
// back as empty strings.
type EmailSummary struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
}

// OutgoingMessage represents an email to be sent.
type OutgoingMessage struct {
	To      string
	Subject string
	Body    string
	Cc      string
	Bcc     string
}

// ModifyResult reports the label state of a message after a modify call.
type ModifyResult struct {
	ID     string   `json:"id"`
	Labels []string `json:"labels"`
}
