// Package retry runs a call under a bounded exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// ErrExhausted is wrapped around the last error once the retry budget is spent.
var ErrExhausted = errors.New("retry budget exhausted")

// State is a step of a single retried call.
type State int

const (
	Idle State = iota
	Calling
	Waiting
	Succeeded
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Calling:
		return "calling"
	case Waiting:
		return "waiting"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is reported on every state change.
type Event struct {
	State   State
	Attempt int
	Wait    time.Duration // set when State is Waiting
	Err     error         // last call error, if any
}

// Policy retries transient failures with a doubling delay until MaxElapsed
// has passed since the first call.
type Policy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration // per-wait cap, 0 means uncapped
	MaxElapsed  time.Duration
	MaxAttempts int // 0 means bounded by MaxElapsed only
	Jitter      bool

	Clock     Clock
	Retryable func(error) bool
	Notify    func(Event)
}

// DefaultPolicy doubles from one second up to a 60 second ceiling.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:  time.Second,
		MaxElapsed: 60 * time.Second,
	}
}

func (p Policy) Validate() error {
	if p.BaseDelay <= 0 {
		return errs.Invalid("retry base delay must be positive, got %s", p.BaseDelay)
	}
	if p.MaxElapsed <= 0 {
		return errs.Invalid("retry max elapsed must be positive, got %s", p.MaxElapsed)
	}
	if p.MaxDelay < 0 {
		return errs.Invalid("retry max delay must not be negative, got %s", p.MaxDelay)
	}
	if p.MaxAttempts < 0 {
		return errs.Invalid("retry max attempts must not be negative, got %d", p.MaxAttempts)
	}
	return nil
}

// Do calls fn until it succeeds, fails with a non-retryable error, the budget
// is spent or ctx is done. It returns the number of calls made.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	clock := p.Clock
	if clock == nil {
		clock = RealClock()
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = errs.IsTransient
	}

	p.notify(Event{State: Idle})

	start := clock.Now()
	delay := p.BaseDelay
	for attempt := 1; ; attempt++ {
		p.notify(Event{State: Calling, Attempt: attempt})

		err := fn(ctx)
		if err == nil {
			p.notify(Event{State: Succeeded, Attempt: attempt})
			return attempt, nil
		}
		if ctx.Err() != nil || !retryable(err) {
			p.notify(Event{State: Failed, Attempt: attempt, Err: err})
			return attempt, err
		}

		elapsed := clock.Now().Sub(start)
		if elapsed >= p.MaxElapsed || (p.MaxAttempts > 0 && attempt >= p.MaxAttempts) {
			p.notify(Event{State: Exhausted, Attempt: attempt, Err: err})
			return attempt, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		wait := p.wait(delay, p.MaxElapsed-elapsed)
		p.notify(Event{State: Waiting, Attempt: attempt, Wait: wait, Err: err})
		if err := clock.Sleep(ctx, wait); err != nil {
			p.notify(Event{State: Failed, Attempt: attempt, Err: err})
			return attempt, err
		}

		if delay < p.MaxElapsed {
			delay *= 2
		}
	}
}

func (p Policy) wait(delay, remaining time.Duration) time.Duration {
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.Jitter {
		delay = time.Duration(rand.Int64N(int64(delay) + 1))
	}
	if delay > remaining {
		delay = remaining
	}
	return delay
}

func (p Policy) notify(e Event) {
	if p.Notify != nil {
		p.Notify(e)
	}
}
