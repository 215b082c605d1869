// Package testutil provides deterministic substitutes for time-driven
// behavior in tests.
package testutil

import (
	"sort"
	"sync"
	"time"
)

// ManualTimer is a timer scheduled on ManualTimers. It never fires on its
// own; the owning ManualTimers fires it when virtual time passes its
// deadline.
type ManualTimer struct {
	mu       sync.Mutex
	deadline time.Duration
	fn       func()
	stopped  bool
	fired    bool
}

// Stop cancels the timer. Reports whether the callback was prevented from
// running, matching *time.Timer semantics.
func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *ManualTimer) fire() bool {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
	return true
}

// ManualTimers schedules callbacks on explicit virtual-time advancement
// instead of the wall clock. AfterFunc returns the concrete *ManualTimer
// so this package stays import-free of its consumers; tests wrap it in
// whatever timer-source interface the code under test expects.
//
// Tests schedule work through the component under test, then call Advance
// to fire whatever became due. Reuse across subtests is fine; virtual time
// only moves forward.
type ManualTimers struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*ManualTimer
}

// NewManualTimers creates a manual timer source at virtual time zero.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{}
}

// AfterFunc schedules fn at now+d in virtual time.
func (m *ManualTimers) AfterFunc(d time.Duration, fn func()) *ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTimer{deadline: m.now + d, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves virtual time forward by d and fires every pending timer
// whose deadline has passed, in deadline order. Returns the number of
// callbacks that ran.
func (m *ManualTimers) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	due := make([]*ManualTimer, 0, len(m.timers))
	rest := m.timers[:0]
	for _, t := range m.timers {
		if t.deadline <= m.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	m.timers = rest
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })
	fired := 0
	for _, t := range due {
		if t.fire() {
			fired++
		}
	}
	return fired
}

// Pending returns how many timers are scheduled and not yet due.
func (m *ManualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}
