package toolexec

import (
	"context"
	"sync"
)

// Recorder is a Runner for tests. It records every invocation and returns the
// result of Func, or nil when Func is unset.
type Recorder struct {
	Func func(inv Invocation) error

	mu    sync.Mutex
	calls []Invocation
}

func (r *Recorder) Run(_ context.Context, inv Invocation) error {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()
	if r.Func != nil {
		return r.Func(inv)
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invocation(nil), r.calls...)
}
