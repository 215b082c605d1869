package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevlv/vitrina/internal/catalog"
)

func makeCards(ids ...string) []catalog.Card {
	cards := make([]catalog.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, catalog.Card{
			ID:    id,
			Brand: "Zarina",
			Name:  "Item " + id,
			Price: decimal.NewFromInt(1990),
		})
	}
	return cards
}

// fakeSource serves pre-staged batches and signals each call.
type fakeSource struct {
	mu      sync.Mutex
	batches [][]catalog.Card
	err     error
	calls   int
	called  chan struct{}
}

func newFakeSource(batches ...[]catalog.Card) *fakeSource {
	return &fakeSource{batches: batches, called: make(chan struct{}, 16)}
}

func (f *fakeSource) NextCards(ctx context.Context, limit int) ([]catalog.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	select {
	case f.called <- struct{}{}:
	default:
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitForCall(t *testing.T, f *fakeSource) {
	t.Helper()
	select {
	case <-f.called:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a source call")
	}
}

func TestDeck_StartLoadsFirstBatch(t *testing.T) {
	src := newFakeSource(makeCards("p-1", "p-2", "p-3"))
	d := New(src)

	require.NoError(t, d.Start(context.Background()))

	assert.Equal(t, StateReady, d.State())
	assert.Equal(t, 3, d.Remaining())
	card, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "p-1", card.ID)
}

func TestDeck_StartFailureLeavesEmpty(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("boom")
	d := New(src)

	err := d.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateEmpty, d.State())
}

func TestDeck_EmptyBeforeStartIsLoadingFree(t *testing.T) {
	d := New(newFakeSource())
	// No fetch in flight and no cards: the empty state, not a spinner.
	assert.Equal(t, StateEmpty, d.State())
}

func TestDeck_AdvanceMovesCursor(t *testing.T) {
	src := newFakeSource(makeCards("p-1", "p-2", "p-3", "p-4", "p-5"))
	d := New(src, WithLowWaterMark(0))
	require.NoError(t, d.Start(context.Background()))

	d.Advance(context.Background())
	card, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "p-2", card.ID)
	assert.Equal(t, 4, d.Remaining())
}

func TestDeck_AdvanceOnEmptyIsNoop(t *testing.T) {
	d := New(newFakeSource())
	d.Advance(context.Background())
	assert.Equal(t, 0, d.Remaining())
}

func TestDeck_AdvanceTriggersPrefetchAtLowWater(t *testing.T) {
	src := newFakeSource(
		makeCards("p-1", "p-2", "p-3"),
		makeCards("p-4", "p-5"),
	)
	d := New(src, WithLowWaterMark(2))
	require.NoError(t, d.Start(context.Background()))
	waitForCall(t, src) // the Start fetch

	// Cursor at p-2 leaves 2 remaining, which is the low-water mark.
	d.Advance(context.Background())
	waitForCall(t, src)

	require.Eventually(t, func() bool { return d.Remaining() == 4 },
		2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, src.callCount())
}

func TestDeck_OnAdvanceHookFires(t *testing.T) {
	src := newFakeSource(makeCards("p-1", "p-2"))
	d := New(src, WithLowWaterMark(0))
	require.NoError(t, d.Start(context.Background()))

	fired := 0
	d.OnAdvance(func() { fired++ })

	d.Advance(context.Background())
	assert.Equal(t, 1, fired)
}

func TestDeck_AppendDedupesAgainstHistory(t *testing.T) {
	src := newFakeSource(makeCards("p-1", "p-2"))
	d := New(src, WithLowWaterMark(0))
	require.NoError(t, d.Start(context.Background()))

	// Swipe p-1 away; it is no longer visible but stays in history.
	d.Advance(context.Background())

	appended := d.AppendFetchedCards(makeCards("p-1", "p-2", "p-3"))
	assert.Equal(t, 1, appended, "only the unseen card lands")
	assert.Equal(t, 2, d.Remaining())

	ids := map[string]int{}
	for {
		card, ok := d.Current()
		if !ok {
			break
		}
		ids[card.ID]++
		d.Advance(context.Background())
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "product %s shown more than once", id)
	}
}

func TestDeck_AllDuplicateBatchMarksExhausted(t *testing.T) {
	src := newFakeSource(makeCards("p-1", "p-2"))
	d := New(src, WithLowWaterMark(0))
	require.NoError(t, d.Start(context.Background()))

	appended := d.AppendFetchedCards(makeCards("p-1", "p-2"))
	assert.Zero(t, appended)
	assert.True(t, d.Exhausted())

	// Exhausted decks stop auto-fetching even below the low-water mark.
	d.mu.Lock()
	trigger := d.shouldFetchLocked()
	d.mu.Unlock()
	assert.False(t, trigger)
}

func TestDeck_RefreshClearsExhausted(t *testing.T) {
	src := newFakeSource(
		makeCards("p-1"),
		nil, // exhausting batch
		makeCards("p-2"),
	)
	d := New(src, WithLowWaterMark(0))
	require.NoError(t, d.Start(context.Background()))

	require.NoError(t, d.FetchMore(context.Background()))
	assert.True(t, d.Exhausted())

	require.NoError(t, d.Refresh(context.Background()))
	assert.False(t, d.Exhausted())
	assert.Equal(t, 2, d.Remaining())
}

func TestDeck_ManyBatchesNeverRepeat(t *testing.T) {
	// Overlapping pages from a paging source must still yield unique cards.
	var batches [][]catalog.Card
	for i := 0; i < 10; i++ {
		var ids []string
		for j := i * 3; j < i*3+6; j++ {
			ids = append(ids, fmt.Sprintf("p-%d", j))
		}
		batches = append(batches, makeCards(ids...))
	}

	d := New(newFakeSource(), WithLowWaterMark(0))
	total := 0
	for _, b := range batches {
		total += d.AppendFetchedCards(b)
	}
	assert.Equal(t, 33, total, "3 new cards per overlapping batch after the first")
}

// gatedSource blocks each NextCards call until the test releases a batch.
type gatedSource struct {
	called  chan struct{}
	release chan []catalog.Card
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		called:  make(chan struct{}, 16),
		release: make(chan []catalog.Card),
	}
}

func (g *gatedSource) NextCards(ctx context.Context, limit int) ([]catalog.Card, error) {
	g.called <- struct{}{}
	return <-g.release, nil
}

func TestDeck_NeverEmptyWhileFetchedCardsPending(t *testing.T) {
	// From the moment a fetch starts until its cards are visible, an empty
	// deck reports loading, then ready. An empty-and-idle reading in
	// between would flash the retry affordance and invite an overlapping
	// fetch.
	src := newGatedSource()
	d := New(src)

	done := make(chan error, 1)
	go func() { done <- d.Start(context.Background()) }()
	<-src.called
	require.Equal(t, StateLoading, d.State())

	sawEmpty := make(chan bool, 1)
	go func() {
		for {
			switch d.State() {
			case StateEmpty:
				sawEmpty <- true
				return
			case StateReady:
				sawEmpty <- false
				return
			}
		}
	}()

	src.release <- makeCards("p-1", "p-2")
	require.NoError(t, <-done)

	assert.False(t, <-sawEmpty, "the deck surfaced empty with cards in hand")
	assert.Equal(t, StateReady, d.State())
	assert.Equal(t, 2, d.Remaining())
}
