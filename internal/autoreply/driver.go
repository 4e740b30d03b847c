package autoreply

import (
	"context"
	"math/rand"
	"time"

	"gmail-autoreply/internal/logger"
)

// Driver runs poll cycles for the life of the process. Cycles are strictly
// sequential: the next interval is not drawn until the previous cycle has
// finished, so two cycles can never overlap.
type Driver struct {
	Responder *Responder

	// MinInterval and MaxInterval bound the wait before each tick; the wait
	// is redrawn uniformly from [MinInterval, MaxInterval) every time.
	MinInterval time.Duration
	MaxInterval time.Duration

	// Rand is the interval source. Left nil, a time-seeded source is used.
	Rand *rand.Rand

	Log logger.Logger
}

// Run loops until ctx is canceled. Cycle errors are logged and the loop
// keeps going; only cancellation ends it.
func (d *Driver) Run(ctx context.Context) error {
	timer := time.NewTimer(d.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		d.tick(ctx)
		timer.Reset(d.nextInterval())
	}
}

func (d *Driver) tick(ctx context.Context) {
	report, err := d.Responder.RunCycle(ctx)
	if err != nil {
		d.Log.Errorw("poll cycle failed", "error", err)
		return
	}
	if len(report.Results) == 0 {
		return
	}
	d.Log.Infow("poll cycle finished",
		"sent", report.Sent(),
		"skipped", report.Skipped(),
		"failed", report.Failed(),
	)
}

func (d *Driver) nextInterval() time.Duration {
	span := d.MaxInterval - d.MinInterval
	if span <= 0 {
		return d.MinInterval
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d.MinInterval + time.Duration(d.Rand.Int63n(int64(span)))
}
