package search

import "time"

// Timer is a cancelable pending callback. *time.Timer satisfies it.
type Timer interface {
	// Stop cancels the timer. Reports whether the callback was prevented
	// from running.
	Stop() bool
}

// TimerSource schedules delayed callbacks. The production implementation
// wraps time.AfterFunc; tests substitute a manual source so debounce
// behavior is deterministic.
type TimerSource interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// WallTimers is the production TimerSource backed by the runtime timer
// heap.
type WallTimers struct{}

// AfterFunc schedules fn after d on the runtime timers.
func (WallTimers) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
