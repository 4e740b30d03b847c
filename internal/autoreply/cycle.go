package autoreply

import (
	"context"
	"fmt"
	"sync"

	"gmail-autoreply/internal/config"
	"gmail-autoreply/internal/logger"
	"gmail-autoreply/internal/mailbox"
)

// Outcome classifies what happened to a single thread during a cycle.
type Outcome string

const (
	// OutcomeSent means the canned reply was sent and the thread labeled.
	OutcomeSent Outcome = "sent"
	// OutcomeSkipped means the owner already answered the thread.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means an error interrupted processing of this thread.
	OutcomeFailed Outcome = "failed"
)

// ThreadResult is the per-thread record of one cycle.
type ThreadResult struct {
	ThreadID string
	Outcome  Outcome
	To       string
	Err      error
}

// Report aggregates the thread results of one poll cycle.
type Report struct {
	Results []ThreadResult
}

func (r Report) count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

func (r Report) Sent() int    { return r.count(OutcomeSent) }
func (r Report) Skipped() int { return r.count(OutcomeSkipped) }
func (r Report) Failed() int  { return r.count(OutcomeFailed) }

// ConnectFunc produces an authorized mailbox client. It is invoked lazily on
// the first cycle and the result is reused; a failed attempt is retried on
// the next cycle.
type ConnectFunc func(ctx context.Context) (mailbox.Service, error)

// Responder owns the per-cycle workflow: list unread threads, decide each
// one, reply and label where the owner has not answered.
type Responder struct {
	cfg     config.Config
	log     logger.Logger
	connect ConnectFunc

	mu      sync.Mutex
	mail    mailbox.Service
	account string
}

func New(cfg config.Config, log logger.Logger, connect ConnectFunc) *Responder {
	return &Responder{
		cfg:     cfg,
		log:     log,
		connect: connect,
	}
}

// service returns the mailbox client, connecting on first use.
func (a *Responder) service(ctx context.Context) (mailbox.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mail != nil {
		return a.mail, nil
	}
	svc, err := a.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect mailbox: %w", err)
	}
	a.mail = svc
	return svc, nil
}

// accountAddress resolves the owner's address once and caches it for the
// process lifetime. The lock keeps a slow cycle and the next one from racing
// the first resolution.
func (a *Responder) accountAddress(ctx context.Context, svc mailbox.Service) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.account != "" {
		return a.account, nil
	}
	addr, err := svc.Profile(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve account address: %w", err)
	}
	a.log.Infow("resolved account address", "account", addr)
	a.account = addr
	return addr, nil
}

// RunCycle performs one full pass over the unread threads. Per-thread errors
// are recorded in the report and never abort sibling threads; only listing
// and identity failures surface as the returned error.
func (a *Responder) RunCycle(ctx context.Context) (Report, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return Report{}, err
	}

	account, err := a.accountAddress(ctx, svc)
	if err != nil {
		return Report{}, err
	}

	ids, err := svc.ListThreads(ctx, a.cfg.Query)
	if err != nil {
		return Report{}, fmt.Errorf("list threads: %w", err)
	}
	if len(ids) == 0 {
		return Report{}, nil
	}

	var report Report
	for _, id := range ids {
		result := a.processThread(ctx, svc, account, id)
		if result.Err != nil {
			a.log.Errorw("thread processing failed",
				"threadId", id,
				"error", result.Err,
			)
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (a *Responder) processThread(ctx context.Context, svc mailbox.Service, account, id string) ThreadResult {
	failed := func(err error) ThreadResult {
		return ThreadResult{ThreadID: id, Outcome: OutcomeFailed, Err: err}
	}

	thread, err := svc.GetThread(ctx, id)
	if err != nil {
		return failed(fmt.Errorf("get thread: %w", err))
	}

	decision := Decide(account, thread.Messages, a.cfg.Body)
	if !decision.Reply {
		a.log.Infow("thread already answered, skipping", "threadId", id)
		return ThreadResult{ThreadID: id, Outcome: OutcomeSkipped}
	}

	if err := svc.SendReply(ctx, id, decision.Message); err != nil {
		return failed(fmt.Errorf("send reply: %w", err))
	}

	labelID, err := svc.EnsureLabel(ctx, a.cfg.Label)
	if err != nil {
		return failed(fmt.Errorf("resolve label: %w", err))
	}
	if err := svc.AddLabel(ctx, id, labelID); err != nil {
		return failed(fmt.Errorf("apply label: %w", err))
	}

	a.log.Infow("auto-reply sent",
		"threadId", id,
		"to", decision.Message.To,
		"subject", decision.Message.Subject,
		"snippet", snippet(thread.Messages[0].Body),
	)
	return ThreadResult{ThreadID: id, Outcome: OutcomeSent, To: decision.Message.To}
}

// snippet truncates a body for log output.
func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
