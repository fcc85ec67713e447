package session

import "context"

// Result is the settled outcome of an asynchronous control command.
type Result struct {
	Value string
	Err   error
}

// Future delivers the result of one queued command back to the caller. A
// future settles exactly once; settling happens on the manager's control
// goroutine after any cleanup the task body performed.
type Future struct {
	result Result
	done   chan struct{}
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle records the result and wakes all waiters. Must be called at most
// once, from the control goroutine.
func (f *Future) settle(value string, err error) {
	f.result = Result{Value: value, Err: err}
	close(f.done)
}

// settledFuture returns a future that has already settled, used for
// dispatch-time validation failures.
func settledFuture(value string, err error) *Future {
	f := newFuture()
	f.settle(value, err)
	return f
}

// Await blocks until the command settles or ctx is done.
func (f *Future) Await(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}
