package search

import "sync/atomic"

// requestClock is a monotonic logical clock for stamping outgoing search
// requests.
//
// Every request draws a strictly increasing sequence number. A response is
// applied only if its number still equals the latest issued, which
// discards responses that resolve out of order (a fast second keystroke's
// response must not be overwritten by the first keystroke's slower one).
// In-flight requests are never cancelled; staleness is decided purely at
// delivery time.
//
// Thread-safety: safe for concurrent use (atomic operations), although the
// controller takes its own lock around every draw.
type requestClock struct {
	seq atomic.Int64
}

// Next returns the next sequence number and increments the clock. Each
// call returns a unique, increasing value.
func (c *requestClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *requestClock) Current() int64 {
	return c.seq.Load()
}
