// Package autoreply decides which unread threads still need an answer and
// sends the canned reply to them, driven by a randomized poll loop.
package autoreply

import (
	"strings"

	"gmail-autoreply/internal/mailbox"
)

// Decision is the outcome of inspecting a thread's messages.
type Decision struct {
	// Reply reports whether the canned reply should be sent.
	Reply bool
	// Message is the reply to send when Reply is true.
	Message mailbox.Reply
}

// Decide inspects a thread's messages and determines whether the account
// owner still owes a response. When no message is from the owner, it builds
// a reply to the first message's sender with the original subject prefixed
// "Re: " and In-Reply-To referencing the original Message-ID.
//
// The owner check is substring containment on the raw From header, not
// parsed address equality: an owner address that happens to appear inside a
// longer, different sender address counts as an owner reply.
func Decide(account string, msgs []mailbox.Message, body string) Decision {
	if len(msgs) == 0 {
		return Decision{}
	}

	for _, m := range msgs {
		if strings.Contains(m.From, account) {
			return Decision{}
		}
	}

	first := msgs[0]
	return Decision{
		Reply: true,
		Message: mailbox.Reply{
			From:      account,
			To:        first.From,
			Subject:   "Re: " + first.Subject,
			InReplyTo: first.MessageID,
			Body:      body,
		},
	}
}
