package gmail

import (
	"encoding/base64"
	"mime"
	"strings"
)

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047.
// This is necessary for non-ASCII characters (like German umlauts) in subjects.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}

// BuildRawMessage assembles an RFC 2822 message from msg and returns it
// base64url-encoded without padding, ready for the Gmail send API. The
// body is always sent as HTML; Cc and Bcc headers are included only
// when set.
func BuildRawMessage(msg OutgoingMessage) string {
	var b strings.Builder

	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	b.WriteString("To: ")
	b.WriteString(msg.To)
	b.WriteString("\r\n")

	if msg.Cc != "" {
		b.WriteString("Cc: ")
		b.WriteString(msg.Cc)
		b.WriteString("\r\n")
	}

	if msg.Bcc != "" {
		b.WriteString("Bcc: ")
		b.WriteString(msg.Bcc)
		b.WriteString("\r\n")
	}

	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(msg.Subject))
	b.WriteString("\r\n")

	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}
