package service

import "time"

// Task is a pending deferred callback.
type Task interface {
	// Cancel prevents the callback from running. It reports false when the
	// callback already started or was cancelled before.
	Cancel() bool
}

// Scheduler runs callbacks after a delay. Surfaces use it for their
// simulated latency so that tests can drive time by hand.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// NewScheduler returns a Scheduler backed by the runtime timer.
func NewScheduler() Scheduler { return timerScheduler{} }

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) Task {
	return timerTask{t: time.AfterFunc(d, fn)}
}

type timerTask struct{ t *time.Timer }

func (t timerTask) Cancel() bool { return t.t.Stop() }
