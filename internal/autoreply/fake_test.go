package autoreply

import (
	"context"
	"fmt"
	"sync"

	"gmail-autoreply/internal/mailbox"
)

// fakeMailbox is an in-memory mailbox.Service. SendReply appends the sent
// message to the thread, so a replied thread looks answered on the next
// cycle, like the real service.
type fakeMailbox struct {
	mu sync.Mutex

	account string
	order   []string
	threads map[string]*mailbox.Thread

	labels       map[string]string
	labelCreates int
	applied      map[string][]string

	sent []sentReply

	failThreads map[string]error
	listErr     error

	profileCalls int
	listCalls    int
}

type sentReply struct {
	threadID string
	reply    mailbox.Reply
}

func newFakeMailbox(account string) *fakeMailbox {
	return &fakeMailbox{
		account: account,
		threads: make(map[string]*mailbox.Thread),
		labels:  make(map[string]string),
		applied: make(map[string][]string),
	}
}

func (f *fakeMailbox) addThread(id string, msgs ...mailbox.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, id)
	f.threads[id] = &mailbox.Thread{ID: id, Messages: msgs}
}

func (f *fakeMailbox) Profile(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return f.account, nil
}

func (f *fakeMailbox) ListThreads(ctx context.Context, query string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.order...), nil
}

func (f *fakeMailbox) GetThread(ctx context.Context, id string) (*mailbox.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failThreads[id]; err != nil {
		return nil, err
	}
	thread, ok := f.threads[id]
	if !ok {
		return nil, fmt.Errorf("no such thread %s", id)
	}
	copied := &mailbox.Thread{ID: thread.ID, Messages: append([]mailbox.Message(nil), thread.Messages...)}
	return copied, nil
}

func (f *fakeMailbox) SendReply(ctx context.Context, threadID string, reply mailbox.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{threadID: threadID, reply: reply})
	if thread, ok := f.threads[threadID]; ok {
		thread.Messages = append(thread.Messages, mailbox.Message{
			From:    reply.From,
			Subject: reply.Subject,
			Body:    reply.Body,
		})
	}
	return nil
}

func (f *fakeMailbox) EnsureLabel(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.labels[name]; ok {
		return id, nil
	}
	f.labelCreates++
	id := fmt.Sprintf("Label_%d", f.labelCreates)
	f.labels[name] = id
	return id, nil
}

func (f *fakeMailbox) AddLabel(ctx context.Context, threadID, labelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied[threadID] = append(f.applied[threadID], labelID)
	return nil
}
