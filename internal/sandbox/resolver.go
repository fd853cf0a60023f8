package sandbox

import "sync"

// resolver arbitrates the race between the timeout timer, the output-cap
// writers, and natural process exit. Whichever source settles first owns
// the terminal outcome and performs cleanup; later settle calls are no-ops.
type resolver struct {
	mu        sync.Mutex
	settled   bool
	violation Violation
}

func newResolver() *resolver {
	return &resolver{}
}

// settle attempts to resolve the execution with the given violation.
// It returns true exactly once per resolver — for the winning caller.
func (r *resolver) settle(v Violation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return false
	}
	r.settled = true
	r.violation = v
	return true
}

// outcome returns the winning violation. Valid only after a settle call;
// before that it reports ViolationNone.
func (r *resolver) outcome() Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.violation
}
