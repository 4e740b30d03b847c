package mailbox

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// encodeReply builds the raw RFC 2822 payload Gmail expects: headers, blank
// line, body, the whole thing base64url-encoded for transport.
func encodeReply(r Reply) string {
	var b strings.Builder

	if r.From != "" {
		fmt.Fprintf(&b, "From: %s\r\n", r.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", r.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeSubject(r.Subject))
	if r.InReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\r\n", r.InReplyTo)
		fmt.Fprintf(&b, "References: %s\r\n", r.InReplyTo)
	}
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(r.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// encodeSubject B-encodes the subject per RFC 2047. Encoding happens
// unconditionally so non-ASCII subjects survive transport untouched.
func encodeSubject(s string) string {
	return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
}
