package call

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"scamlab-go/internal/logger"
	"scamlab-go/internal/retell"
)

// State is the poller's lifecycle state. Ended and TimedOut are terminal.
type State string

const (
	StatePolling  State = "polling"
	StateEnded    State = "ended"
	StateTimedOut State = "timed_out"
)

// StatusFunc queries the provider for the current call record.
type StatusFunc func(ctx context.Context, callID string) (retell.Call, error)

// Result is the poller's terminal outcome. Call is populated only when the
// state is StateEnded.
type Result struct {
	State State
	Call  retell.Call
}

// Poller repeatedly queries call status at a fixed interval until the
// provider reports the call ended or the ceiling elapses. Status errors are
// logged and treated as "not yet ended"; the next tick is the retry. Only
// one query is in flight at a time since each tick waits for its response.
type Poller struct {
	Interval time.Duration
	Ceiling  time.Duration
	Clock    Clock
	Status   StatusFunc
	Log      *logrus.Entry
}

// Run polls until a terminal state is reached or ctx is cancelled. No query
// is issued after cancellation.
func (p *Poller) Run(ctx context.Context, callID string) (Result, error) {
	clock := p.Clock
	if clock == nil {
		clock = SystemClock
	}
	entry := p.Log
	if entry == nil {
		entry = logger.New().WithComponent("call.poller")
	}
	log := entry.WithField("call_id", callID)
	deadline := clock.Now().Add(p.Ceiling)

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-clock.After(p.Interval):
		}
		if !clock.Now().Before(deadline) {
			log.Warn("call polling timed out")
			return Result{State: StateTimedOut}, nil
		}

		c, err := p.Status(ctx, callID)
		if err != nil {
			// transient or not, the next tick tries again
			log.WithField("error", err.Error()).Warn("poll failed, retrying next tick")
			continue
		}
		log.WithField("call_status", c.CallStatus).Debug("polled call status")
		if c.CallStatus == retell.StatusEnded {
			log.Info("call ended")
			return Result{State: StateEnded, Call: c}, nil
		}
	}
}
