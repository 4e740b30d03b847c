// Package mailbox wraps the Gmail API behind the small capability surface
// the auto-reply core needs: list threads, read them, send a reply, and
// manage labels.
package mailbox

import "context"

// Message is one mail within a thread. From, Subject and MessageID carry the
// raw header values as the service returned them.
type Message struct {
	ID        string
	From      string
	Subject   string
	MessageID string
	Body      string
}

// Thread is an ordered conversation; Messages are chronological as returned
// by the service.
type Thread struct {
	ID       string
	Messages []Message
}

// Reply is an outgoing answer appended to an existing thread.
type Reply struct {
	From      string
	To        string
	Subject   string
	InReplyTo string
	Body      string
}

// Service is the mailbox capability consumed by the auto-reply core.
type Service interface {
	// Profile returns the authorized account's own email address.
	Profile(ctx context.Context) (string, error)
	// ListThreads returns the ids of threads matching query, in service order.
	ListThreads(ctx context.Context, query string) ([]string, error)
	// GetThread fetches a thread with all messages and headers.
	GetThread(ctx context.Context, id string) (*Thread, error)
	// SendReply sends reply into the thread identified by threadID.
	SendReply(ctx context.Context, threadID string, reply Reply) error
	// EnsureLabel returns the id of the label called name, creating it if absent.
	EnsureLabel(ctx context.Context, name string) (string, error)
	// AddLabel adds the label to the thread's label set.
	AddLabel(ctx context.Context, threadID, labelID string) error
}
