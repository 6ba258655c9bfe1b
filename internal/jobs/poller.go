package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Vendor job statuses. Vendors disagree on spelling, so both success and
// both failure forms are terminal.
const (
	StatusProcessing = "Processing"
	StatusSuccess    = "Success"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
	StatusError      = "Error"
)

// ErrExhausted means the attempt budget ran out before a terminal status.
// The caller maps this to HTTP 408 together with the task id so polling can
// resume out-of-band.
var ErrExhausted = errors.New("poll attempts exhausted")

// FailedError carries the vendor's raw status payload for a job that ended
// in a failure state.
type FailedError struct {
	Status  string
	Payload json.RawMessage
}

func (e *FailedError) Error() string {
	return "job ended with status " + e.Status
}

// CheckFunc performs one status probe. A transport error is transient: it is
// logged and the next interval is awaited. Status and payload are the
// vendor's own values, passed through untouched.
type CheckFunc func(ctx context.Context) (status string, payload json.RawMessage, err error)

// SleepFunc waits out one interval; tests substitute a simulated clock.
type SleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poller drives the submit→poll→retrieve state machine for vendors whose
// video generation completes after the initial HTTP response. It blocks the
// calling request for up to interval×maxAttempts; there is no background
// queue, so the attempt cap is the only thing bounding the request.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	sleep       SleepFunc
	logger      *zap.Logger
}

func NewPoller(interval time.Duration, maxAttempts int, logger *zap.Logger) *Poller {
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		sleep:       realSleep,
		logger:      logger,
	}
}

// WithSleep swaps the wait function. Test hook.
func (p *Poller) WithSleep(sleep SleepFunc) *Poller {
	p.sleep = sleep
	return p
}

// Await polls check until a terminal status, the attempt budget, or context
// cancellation. On success it returns the vendor's final payload.
func (p *Poller) Await(ctx context.Context, taskID string, check CheckFunc) (json.RawMessage, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		status, payload, err := check(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// transient; keep the attempt counter moving
			p.logger.Warn("Status check failed, retrying",
				zap.String("task_id", taskID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			switch {
			case isSuccess(status):
				return payload, nil
			case isFailure(status):
				return nil, &FailedError{Status: status, Payload: payload}
			}
		}

		if attempt < p.maxAttempts {
			if err := p.sleep(ctx, p.interval); err != nil {
				return nil, err
			}
		}
	}

	return nil, ErrExhausted
}

func isSuccess(status string) bool {
	return strings.EqualFold(status, StatusSuccess) || strings.EqualFold(status, StatusCompleted)
}

func isFailure(status string) bool {
	return strings.EqualFold(status, StatusFailed) || strings.EqualFold(status, StatusError)
}
