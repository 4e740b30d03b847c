package autoreply

import (
	"testing"

	"github.com/nalgeon/be"

	"gmail-autoreply/internal/mailbox"
)

const account = "me@y.com"

func TestDecideUnansweredThread(t *testing.T) {
	msgs := []mailbox.Message{
		{From: "alice@x.com", Subject: "hello", MessageID: "<m1@x.com>"},
	}

	d := Decide(account, msgs, "canned text")
	be.True(t, d.Reply)
	be.Equal(t, d.Message.From, account)
	be.Equal(t, d.Message.To, "alice@x.com")
	be.Equal(t, d.Message.Subject, "Re: hello")
	be.Equal(t, d.Message.InReplyTo, "<m1@x.com>")
	be.Equal(t, d.Message.Body, "canned text")
}

func TestDecideOwnerAlreadyAnswered(t *testing.T) {
	msgs := []mailbox.Message{
		{From: "alice@x.com", Subject: "hello", MessageID: "<m1@x.com>"},
		{From: "me@y.com", Subject: "Re: hello", MessageID: "<m2@y.com>"},
	}

	d := Decide(account, msgs, "canned text")
	be.True(t, !d.Reply)
}

func TestDecideRepliesToFirstMessageNotLast(t *testing.T) {
	msgs := []mailbox.Message{
		{From: "alice@x.com", Subject: "hello", MessageID: "<m1@x.com>"},
		{From: "bob@x.com", Subject: "Re: hello", MessageID: "<m2@x.com>"},
	}

	d := Decide(account, msgs, "canned text")
	be.True(t, d.Reply)
	be.Equal(t, d.Message.To, "alice@x.com")
	be.Equal(t, d.Message.InReplyTo, "<m1@x.com>")
}

func TestDecideSubstringMatchSemantics(t *testing.T) {
	// The owner check is containment on the raw header value, not parsed
	// address equality.
	t.Run("clean negative", func(t *testing.T) {
		// "me@y.com" is not a substring of "me2@y.com".
		msgs := []mailbox.Message{
			{From: "me2@y.com", Subject: "hi", MessageID: "<m1@y.com>"},
		}
		d := Decide(account, msgs, "canned text")
		be.True(t, d.Reply)
	})

	t.Run("true-substring false positive", func(t *testing.T) {
		// The owner address appears inside a longer, different address, so
		// the thread counts as answered even though the owner never wrote.
		msgs := []mailbox.Message{
			{From: `"Someone Else" <some-me@y.com>`, Subject: "hi", MessageID: "<m1@y.com>"},
		}
		d := Decide(account, msgs, "canned text")
		be.True(t, !d.Reply)
	})

	t.Run("display name form", func(t *testing.T) {
		msgs := []mailbox.Message{
			{From: "alice@x.com", Subject: "hi", MessageID: "<m1@x.com>"},
			{From: `"Me" <me@y.com>`, Subject: "Re: hi", MessageID: "<m2@y.com>"},
		}
		d := Decide(account, msgs, "canned text")
		be.True(t, !d.Reply)
	})
}

func TestDecideEmptyThread(t *testing.T) {
	d := Decide(account, nil, "canned text")
	be.True(t, !d.Reply)
}
