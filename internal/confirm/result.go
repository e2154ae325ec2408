// Package confirm gates destructive actions behind an asynchronous yes/no
// prompt. The prompt widget lives behind ModalOpener; callers only ever see
// a Result that settles as Confirmed or Cancelled.
package confirm

import (
	"context"
	"sync"
)

// Outcome is how a confirmation settled.
type Outcome int

const (
	// Pending means the user has not answered yet.
	Pending Outcome = iota
	Confirmed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Result is a one-shot future settled exactly once.
// The first Resolve or Reject wins; later calls are ignored.
type Result struct {
	once    sync.Once
	done    chan struct{}
	mu      sync.RWMutex
	outcome Outcome
}

// NewResult returns an unsettled result.
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

// Resolved returns a result already settled as Confirmed.
func Resolved() *Result {
	r := NewResult()
	r.Resolve()
	return r
}

// Rejected returns a result already settled as Cancelled.
func Rejected() *Result {
	r := NewResult()
	r.Reject()
	return r
}

// Resolve settles the result as Confirmed.
func (r *Result) Resolve() { r.settle(Confirmed) }

// Reject settles the result as Cancelled.
func (r *Result) Reject() { r.settle(Cancelled) }

func (r *Result) settle(o Outcome) {
	r.once.Do(func() {
		r.mu.Lock()
		r.outcome = o
		r.mu.Unlock()
		close(r.done)
	})
}

// Done is closed once the result settles.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Outcome reports the current outcome without blocking.
func (r *Result) Outcome() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome
}

// Wait blocks until the result settles or ctx is done.
// The error is only ever ctx.Err(); a cancelled prompt is not an error.
func (r *Result) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-r.done:
		return r.Outcome(), nil
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
}
