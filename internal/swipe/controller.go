// Package swipe maps continuous drag gestures onto discrete deck
// transitions.
//
// The controller is an explicit finite-state machine with three phases:
//
//	Resting --(BeginDrag)--> Dragging
//	Dragging --(EndDrag, |displacement| >= threshold)--> Committing
//	Dragging --(EndDrag, |displacement| < threshold)--> Resting (snap back)
//	Committing --(CompleteCommit)--> Resting (deck advances)
//
// Orthogonal to the drag phases, each card carries a front/back flip flag
// toggled by a discrete tap. The flip flag resets to front whenever the
// deck advances: a newly shown card always starts front-facing.
//
// The controller performs no I/O. Displacement is a continuous physical
// quantity and is clamped internally, so any input value is acceptable.
package swipe

import (
	"math"
	"sync"
)

// Phase is the current state of the gesture machine.
type Phase int

const (
	// PhaseResting means no gesture is in progress.
	PhaseResting Phase = iota
	// PhaseDragging means a drag gesture has started and not yet ended.
	PhaseDragging
	// PhaseCommitting means a past-threshold release is animating out and
	// the deck advance is pending CompleteCommit.
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseResting:
		return "resting"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Decision is the discrete outcome of a gesture end.
type Decision int

const (
	// DecisionNone means the event was ignored (wrong phase).
	DecisionNone Decision = iota
	// DecisionSnapBack means the card returns to rest; the deck is untouched.
	DecisionSnapBack
	// DecisionCommit means the card is swiped away and the deck will advance
	// once the commit animation completes.
	DecisionCommit
)

const (
	// DefaultThreshold is the displacement magnitude, in points, past which
	// a release commits the swipe.
	DefaultThreshold = 120.0
	// DefaultMaxDisplacement clamps reported displacement so absurd gesture
	// values cannot leak into downstream math.
	DefaultMaxDisplacement = 10000.0
)

// Controller is the gesture-to-transition state machine for one deck.
//
// Thread-safety: all methods are safe for concurrent use, though the UI
// event loop is expected to be the only caller in practice.
type Controller struct {
	mu sync.Mutex

	phase     Phase
	flipped   bool
	threshold float64
	maxDisp   float64

	// advance is invoked on the Committing -> Resting edge.
	advance func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold overrides the commit displacement threshold.
func WithThreshold(points float64) Option {
	return func(c *Controller) { c.threshold = points }
}

// NewController creates a controller in the Resting phase. The advance
// callback fires once per committed swipe, after CompleteCommit; it is
// where the deck cursor moves.
func NewController(advance func(), opts ...Option) *Controller {
	c := &Controller{
		phase:     PhaseResting,
		threshold: DefaultThreshold,
		maxDisp:   DefaultMaxDisplacement,
		advance:   advance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current gesture phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Flipped reports whether the current card shows its back face.
func (c *Controller) Flipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flipped
}

// BeginDrag enters the Dragging phase. Returns false if a gesture is
// already in progress or a commit animation is still running.
func (c *Controller) BeginDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseResting {
		return false
	}
	c.phase = PhaseDragging
	return true
}

// EndDrag ends the active drag with the given terminal displacement and
// returns the committed decision. Under-threshold releases snap back with
// no deck mutation and no flip change.
func (c *Controller) EndDrag(displacement float64) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDragging {
		return DecisionNone
	}

	d := clamp(displacement, c.maxDisp)
	if math.Abs(d) >= c.threshold {
		c.phase = PhaseCommitting
		return DecisionCommit
	}
	c.phase = PhaseResting
	return DecisionSnapBack
}

// CompleteCommit finishes a committed swipe: the deck advances and the next
// card starts front-facing. Returns false if no commit is in flight.
func (c *Controller) CompleteCommit() bool {
	c.mu.Lock()
	if c.phase != PhaseCommitting {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseResting
	c.flipped = false
	advance := c.advance
	c.mu.Unlock()

	// Called outside the lock: the advance callback may re-enter the
	// controller (e.g. to query Flipped for the freshly shown card).
	if advance != nil {
		advance()
	}
	return true
}

// Tap toggles the front/back flip of the current card. Taps are only
// honored at rest; mid-drag or mid-commit taps are discarded. Returns the
// new flip state.
func (c *Controller) Tap() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseResting {
		return c.flipped
	}
	c.flipped = !c.flipped
	return c.flipped
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
