package swipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestController_CommitAdvancesDeck(t *testing.T) {
	advanced := 0
	c := NewController(func() { advanced++ })

	assert.True(t, c.BeginDrag())
	assert.Equal(t, PhaseDragging, c.Phase())

	assert.Equal(t, DecisionCommit, c.EndDrag(-240))
	assert.Equal(t, PhaseCommitting, c.Phase())
	assert.Zero(t, advanced, "deck must not move until the commit completes")

	assert.True(t, c.CompleteCommit())
	assert.Equal(t, PhaseResting, c.Phase())
	assert.Equal(t, 1, advanced)
}

func TestController_SnapBackLeavesDeckUntouched(t *testing.T) {
	advanced := 0
	c := NewController(func() { advanced++ })

	c.Tap() // flip the card first
	assert.True(t, c.Flipped())

	c.BeginDrag()
	assert.Equal(t, DecisionSnapBack, c.EndDrag(60))

	assert.Equal(t, PhaseResting, c.Phase())
	assert.Zero(t, advanced, "under-threshold release must not advance")
	assert.True(t, c.Flipped(), "under-threshold release must not change the flip")
}

func TestController_ThresholdIsMagnitude(t *testing.T) {
	c := NewController(nil)

	c.BeginDrag()
	assert.Equal(t, DecisionCommit, c.EndDrag(DefaultThreshold), "exact threshold commits")

	c.CompleteCommit()
	c.BeginDrag()
	assert.Equal(t, DecisionCommit, c.EndDrag(200), "rightward swipes commit too")
}

func TestController_FlipResetsOnAdvance(t *testing.T) {
	c := NewController(func() {})

	assert.True(t, c.Tap())
	c.BeginDrag()
	c.EndDrag(-300)
	c.CompleteCommit()

	assert.False(t, c.Flipped(), "new card starts front-facing")
}

func TestController_TapIgnoredMidGesture(t *testing.T) {
	c := NewController(nil)

	c.BeginDrag()
	assert.False(t, c.Tap(), "mid-drag tap is discarded")

	c.EndDrag(-300)
	assert.False(t, c.Tap(), "mid-commit tap is discarded")

	c.CompleteCommit()
	assert.True(t, c.Tap(), "tap works again at rest")
}

func TestController_IgnoresOutOfPhaseEvents(t *testing.T) {
	c := NewController(nil)

	assert.Equal(t, DecisionNone, c.EndDrag(-300), "EndDrag without BeginDrag is ignored")
	assert.False(t, c.CompleteCommit(), "CompleteCommit without a commit is ignored")

	c.BeginDrag()
	assert.False(t, c.BeginDrag(), "nested BeginDrag is rejected")
}

func TestController_DisplacementClamped(t *testing.T) {
	c := NewController(nil)

	// Absurd values still resolve to a plain commit.
	c.BeginDrag()
	assert.Equal(t, DecisionCommit, c.EndDrag(-1e308))
}

func TestController_CustomThreshold(t *testing.T) {
	c := NewController(nil, WithThreshold(50))

	c.BeginDrag()
	assert.Equal(t, DecisionSnapBack, c.EndDrag(-49))

	c.BeginDrag()
	assert.Equal(t, DecisionCommit, c.EndDrag(-50))
}
