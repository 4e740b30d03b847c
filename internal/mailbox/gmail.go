package mailbox

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail implements Service against the Gmail REST API.
type Gmail struct {
	service *gmail.Service
	userID  string
}

var _ Service = (*Gmail)(nil)

// NewGmail builds a Gmail client for the authorized user.
func NewGmail(ctx context.Context, ts oauth2.TokenSource) (*Gmail, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Gmail{
		service: service,
		userID:  "me",
	}, nil
}

func (g *Gmail) Profile(ctx context.Context) (string, error) {
	profile, err := g.service.Users.GetProfile(g.userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile.EmailAddress, nil
}

func (g *Gmail) ListThreads(ctx context.Context, query string) ([]string, error) {
	resp, err := g.service.Users.Threads.List(g.userID).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	ids := make([]string, 0, len(resp.Threads))
	for _, thread := range resp.Threads {
		ids = append(ids, thread.Id)
	}
	return ids, nil
}

func (g *Gmail) GetThread(ctx context.Context, id string) (*Thread, error) {
	detail, err := g.service.Users.Threads.Get(g.userID, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", id, err)
	}

	thread := &Thread{ID: id}
	for _, msg := range detail.Messages {
		m := Message{
			ID:   msg.Id,
			Body: extractBody(msg),
		}
		if msg.Payload != nil {
			for _, header := range msg.Payload.Headers {
				switch header.Name {
				case "From":
					m.From = header.Value
				case "Subject":
					m.Subject = header.Value
				case "Message-ID", "Message-Id":
					m.MessageID = header.Value
				}
			}
		}
		thread.Messages = append(thread.Messages, m)
	}
	return thread, nil
}

func (g *Gmail) SendReply(ctx context.Context, threadID string, reply Reply) error {
	message := &gmail.Message{
		Raw:      encodeReply(reply),
		ThreadId: threadID,
	}

	if _, err := g.service.Users.Messages.Send(g.userID, message).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// EnsureLabel scans the label list for an exact name match and creates the
// label when it is absent.
func (g *Gmail) EnsureLabel(ctx context.Context, name string) (string, error) {
	resp, err := g.service.Users.Labels.List(g.userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}

	for _, label := range resp.Labels {
		if label.Name == name {
			return label.Id, nil
		}
	}

	created, err := g.service.Users.Labels.Create(g.userID, &gmail.Label{Name: name}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return created.Id, nil
}

func (g *Gmail) AddLabel(ctx context.Context, threadID, labelID string) error {
	req := &gmail.ModifyThreadRequest{AddLabelIds: []string{labelID}}
	if _, err := g.service.Users.Threads.Modify(g.userID, threadID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to label thread %s: %w", threadID, err)
	}
	return nil
}
