// Package deck maintains the ordered stack of product cards a user swipes
// through, and keeps it topped up by prefetching from a remote source.
//
// The deck is an append-only sequence with a forward-only cursor. When the
// cursor moves within the low-water-mark distance of the end, the deck asks
// its Source for more cards in the background. Fetched cards are
// deduplicated by product id against everything the deck has ever held, so
// the deck never shows the same product twice and an exhausted source (one
// that only returns already-seen products) cannot cause a fetch loop.
package deck

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avdeevlv/vitrina/internal/catalog"
)

// State is the presentation-level state of the deck.
type State int

const (
	// StateLoading means the deck has no card to show but a fetch is in
	// flight. The UI shows a spinner.
	StateLoading State = iota
	// StateReady means the cursor points at a visible card.
	StateReady
	// StateEmpty means the deck has no card to show and no fetch is in
	// flight. Distinct from StateLoading so the UI can offer a retry
	// affordance instead of an infinite spinner.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Source supplies the next batch of cards. Implementations are expected to
// track their own paging; the deck only asks for "more".
type Source interface {
	NextCards(ctx context.Context, limit int) ([]catalog.Card, error)
}

const (
	// DefaultLowWaterMark is the remaining-card threshold that triggers a
	// background prefetch.
	DefaultLowWaterMark = 2
	// DefaultFetchSize is how many cards a single prefetch requests.
	DefaultFetchSize = 10
)

// Deck is the card stack plus its prefetch bookkeeping.
//
// Thread-safety: all exported methods are safe for concurrent use. The
// background fetch goroutine re-enters the deck through
// AppendFetchedCards.
type Deck struct {
	mu sync.Mutex

	source    Source
	logger    *slog.Logger
	lowWater  int
	fetchSize int

	cards  []catalog.Card
	cursor int
	// seen holds every product id ever appended, including cards already
	// swiped away. Dedup is against history, not just the visible tail.
	seen map[string]struct{}

	fetching bool
	// exhausted is set when a fetch returns no unseen cards. It suppresses
	// further auto-triggered fetches until Refresh.
	exhausted bool

	// onAdvance hooks fire after each successful cursor advance. The swipe
	// controller uses one to reset the flip state of the new card.
	onAdvance []func()
}

// Option configures a Deck.
type Option func(*Deck)

// WithLowWaterMark overrides the prefetch trigger threshold.
func WithLowWaterMark(n int) Option {
	return func(d *Deck) { d.lowWater = n }
}

// WithFetchSize overrides the per-fetch card count.
func WithFetchSize(n int) Option {
	return func(d *Deck) { d.fetchSize = n }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Deck) { d.logger = l }
}

// New creates an empty deck reading from source. Call Start to load the
// first batch.
func New(source Source, opts ...Option) *Deck {
	d := &Deck{
		source:    source,
		logger:    slog.Default(),
		lowWater:  DefaultLowWaterMark,
		fetchSize: DefaultFetchSize,
		seen:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnAdvance registers a hook invoked after every cursor advance.
func (d *Deck) OnAdvance(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onAdvance = append(d.onAdvance, fn)
}

// Start performs the initial synchronous fetch. A failed initial fetch
// leaves the deck empty; the error is returned so the caller can surface a
// retry affordance.
func (d *Deck) Start(ctx context.Context) error {
	return d.FetchMore(ctx)
}

// State reports the presentation state of the deck.
func (d *Deck) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Deck) stateLocked() State {
	if d.cursor < len(d.cards) {
		return StateReady
	}
	if d.fetching {
		return StateLoading
	}
	return StateEmpty
}

// Current returns the card under the cursor, if any.
func (d *Deck) Current() (catalog.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.cards) {
		return catalog.Card{}, false
	}
	return d.cards[d.cursor], true
}

// Remaining returns how many cards are left at and after the cursor.
func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.cards) {
		return 0
	}
	return len(d.cards) - d.cursor
}

// Advance moves the cursor forward by one. When the new position is within
// the low-water-mark distance of the end, a background fetch for more cards
// is triggered. Advancing an empty deck is a no-op.
//
// The background fetch uses ctx; a failed fetch is logged and swallowed,
// leaving the deck unchanged.
func (d *Deck) Advance(ctx context.Context) {
	d.mu.Lock()
	if d.cursor >= len(d.cards) {
		d.mu.Unlock()
		return
	}
	d.cursor++
	hooks := make([]func(), len(d.onAdvance))
	copy(hooks, d.onAdvance)
	trigger := d.shouldFetchLocked()
	if trigger {
		d.fetching = true
	}
	d.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if trigger {
		go d.fetchInto(ctx)
	}
}

// shouldFetchLocked reports whether a prefetch should start now.
func (d *Deck) shouldFetchLocked() bool {
	if d.fetching || d.exhausted {
		return false
	}
	remaining := len(d.cards) - d.cursor
	return remaining <= d.lowWater
}

// FetchMore synchronously fetches and appends one batch. Used for the
// initial load and for explicit retries from the empty state.
func (d *Deck) FetchMore(ctx context.Context) error {
	d.mu.Lock()
	if d.fetching {
		d.mu.Unlock()
		return nil
	}
	d.fetching = true
	d.mu.Unlock()

	return d.fetch(ctx)
}

// fetchInto is the background variant of fetch; errors are logged and
// swallowed so the user simply sees no new cards appended.
func (d *Deck) fetchInto(ctx context.Context) {
	if err := d.fetch(ctx); err != nil {
		d.logger.Warn("deck prefetch failed", "error", err)
	}
}

// fetch runs one source call and appends the result. The caller must have
// set d.fetching. The flag clears in the same critical section as the
// append, so the deck is never observed empty-and-idle while fetched cards
// are pending.
func (d *Deck) fetch(ctx context.Context) error {
	cards, err := d.source.NextCards(ctx, d.fetchSize)

	d.mu.Lock()
	d.fetching = false
	if err != nil {
		d.mu.Unlock()
		return err
	}
	appended := d.appendLocked(cards)
	d.mu.Unlock()

	d.logger.Debug("deck fetch complete", "fetched", len(cards), "appended", appended)
	return nil
}

// AppendFetchedCards appends the unseen cards from newCards to the deck,
// preserving fetch order. Cards whose product id has already been appended
// (ever, not just currently visible) are dropped, so the deck never
// contains two cards with the same product id.
//
// A batch that contains no unseen cards marks the source exhausted, which
// suppresses further auto-triggered fetches until Refresh. Returns the
// number of cards actually appended.
func (d *Deck) AppendFetchedCards(newCards []catalog.Card) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.appendLocked(newCards)
}

func (d *Deck) appendLocked(newCards []catalog.Card) int {
	appended := 0
	for _, c := range newCards {
		if _, dup := d.seen[c.ID]; dup {
			continue
		}
		d.seen[c.ID] = struct{}{}
		d.cards = append(d.cards, c)
		appended++
	}
	if appended == 0 {
		d.exhausted = true
	}
	return appended
}

// Refresh clears the exhausted flag and synchronously fetches a batch.
// Bound to the retry affordance shown in the empty state.
func (d *Deck) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.exhausted = false
	d.mu.Unlock()
	return d.FetchMore(ctx)
}

// Exhausted reports whether the source stopped yielding unseen cards.
func (d *Deck) Exhausted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exhausted
}
