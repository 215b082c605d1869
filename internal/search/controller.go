// Package search drives paginated remote product search from debounced
// text and filter input.
//
// The controller owns the one genuine race condition in the client: search
// requests resolve out of order, and a stale response must never replace a
// newer one. Every outgoing request carries a sequence number from a
// monotonic logical clock; a response is applied only while its number is
// still the latest issued. Requests are never aborted, only their results
// are discarded.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/avdeevlv/vitrina/internal/catalog"
)

// Filters is the multi-select filter set applied alongside the text query.
type Filters struct {
	Categories []string
	Brands     []string
	Styles     []string
}

// Empty reports whether no filter is active.
func (f Filters) Empty() bool {
	return len(f.Categories) == 0 && len(f.Brands) == 0 && len(f.Styles) == 0
}

func (f Filters) clone() Filters {
	return Filters{
		Categories: append([]string(nil), f.Categories...),
		Brands:     append([]string(nil), f.Brands...),
		Styles:     append([]string(nil), f.Styles...),
	}
}

// Request is one outgoing search call.
type Request struct {
	Text    string
	Filters Filters
	Limit   int
	Offset  int
}

// Searcher executes remote product searches. The API client implements it.
type Searcher interface {
	SearchProducts(ctx context.Context, req Request) ([]catalog.Card, error)
}

// Phase is the presentation-level state of the result set.
type Phase int

const (
	// PhasePrompt means the query is below the minimum length and no filter
	// is active: show "enter a query", issue no remote call. Distinct from
	// PhaseNoResults.
	PhasePrompt Phase = iota
	// PhaseLoading means a request is in flight and nothing is shown yet.
	PhaseLoading
	// PhaseResults means at least one result is visible.
	PhaseResults
	// PhaseNoResults means the latest search completed with nothing to
	// show.
	PhaseNoResults
)

func (p Phase) String() string {
	switch p {
	case PhasePrompt:
		return "prompt"
	case PhaseLoading:
		return "loading"
	case PhaseResults:
		return "results"
	case PhaseNoResults:
		return "no-results"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the controller state handed to the
// change callback.
type Snapshot struct {
	Phase     Phase
	Results   []catalog.Card
	Loading   bool
	Exhausted bool
}

const (
	// DefaultMinQueryLen is the minimum trimmed query length that triggers
	// a remote call when no filters are active.
	DefaultMinQueryLen = 2
	// DefaultPageSize is the limit carried by each search request. A page
	// shorter than this marks the result set terminal.
	DefaultPageSize = 20
	// DefaultTypingDebounce delays the request while the user is still
	// typing the query.
	DefaultTypingDebounce = 350 * time.Millisecond
	// DefaultFilterDebounce delays the request after a filter toggle.
	// Checkbox changes react faster than keystrokes.
	DefaultFilterDebounce = 120 * time.Millisecond
)

// Controller translates query/filter input into paginated remote search
// calls and maintains the deduplicated, staleness-guarded result set.
//
// Thread-safety: all exported methods are safe for concurrent use; request
// completions re-enter through deliver on their own goroutines.
type Controller struct {
	mu sync.Mutex

	ctx      context.Context
	searcher Searcher
	logger   *slog.Logger
	timers   TimerSource
	onChange func(Snapshot)

	typingDelay time.Duration
	filterDelay time.Duration
	pageSize    int
	minQueryLen int

	clock  requestClock
	latest int64

	query   string
	filters Filters

	results   []catalog.Card
	seen      map[string]struct{}
	loading   bool
	exhausted bool
	prompt    bool

	pending Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimers substitutes the timer source used for debouncing.
func WithTimers(ts TimerSource) Option {
	return func(c *Controller) { c.timers = ts }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithPageSize overrides the request page size.
func WithPageSize(n int) Option {
	return func(c *Controller) { c.pageSize = n }
}

// WithDebounce overrides both debounce delays.
func WithDebounce(typing, filter time.Duration) Option {
	return func(c *Controller) {
		c.typingDelay = typing
		c.filterDelay = filter
	}
}

// WithOnChange registers the change callback. It is invoked outside the
// controller lock after every visible state change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a controller in the prompt state. ctx is the base
// context for all outgoing requests and is never cancelled per request;
// stale responses are discarded, not aborted.
func NewController(ctx context.Context, searcher Searcher, opts ...Option) *Controller {
	c := &Controller{
		ctx:         ctx,
		searcher:    searcher,
		logger:      slog.Default(),
		timers:      WallTimers{},
		typingDelay: DefaultTypingDebounce,
		filterDelay: DefaultFilterDebounce,
		pageSize:    DefaultPageSize,
		minQueryLen: DefaultMinQueryLen,
		prompt:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records new query text and schedules a refresh after the typing
// debounce. Rapid keystrokes collapse into a single request: each call
// cancels the previously pending timer.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	c.query = norm.NFC.String(text)
	c.scheduleLocked(c.typingDelay)
	c.mu.Unlock()
}

// SetFilters records a new filter set and schedules a refresh after the
// shorter filter debounce.
func (c *Controller) SetFilters(f Filters) {
	c.mu.Lock()
	c.filters = f.clone()
	c.scheduleLocked(c.filterDelay)
	c.mu.Unlock()
}

// scheduleLocked (re)arms the single pending debounce timer.
func (c *Controller) scheduleLocked(d time.Duration) {
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.timers.AfterFunc(d, c.Refresh)
}

// Refresh issues a fresh first-page search for the current query and
// filters, or enters the prompt state when the query is too short and no
// filter is active. Called by the debounce timer; also callable directly
// for an explicit re-trigger (manual retry is always a user action).
func (c *Controller) Refresh() {
	c.mu.Lock()
	trimmed := strings.TrimSpace(c.query)
	if utf8.RuneCountInString(trimmed) < c.minQueryLen {
		if c.filters.Empty() {
			// Below minimum with no filters: skip the remote call entirely.
			// Invalidate anything in flight so a late response cannot
			// resurrect results into the prompt state.
			c.latest = c.clock.Next()
			c.results = nil
			c.seen = nil
			c.loading = false
			c.exhausted = false
			c.prompt = true
			c.notifyLocked()
			return
		}
		// Text below the minimum is never transmitted; with filters
		// active the request goes out filter-only.
		trimmed = ""
	}
	c.startLocked(trimmed, 0)
}

// LoadMore requests the next page. No-op while a request is in flight,
// after the terminal short page, or in the prompt state.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	if c.loading || c.exhausted || c.prompt {
		c.mu.Unlock()
		return
	}
	c.startLocked(strings.TrimSpace(c.query), len(c.results))
}

// startLocked stamps and launches one request. Releases the lock.
func (c *Controller) startLocked(text string, offset int) {
	n := c.clock.Next()
	c.latest = n
	c.loading = true
	c.prompt = false
	if offset == 0 {
		c.exhausted = false
	}
	req := Request{
		Text:    text,
		Filters: c.filters.clone(),
		Limit:   c.pageSize,
		Offset:  offset,
	}
	c.mu.Unlock()

	go func() {
		cards, err := c.searcher.SearchProducts(c.ctx, req)
		c.deliver(n, offset, cards, err)
	}()
}

// deliver applies one request's outcome, unless a newer request has been
// issued since, in which case the response is stale and dropped on the floor.
func (c *Controller) deliver(n int64, offset int, cards []catalog.Card, err error) {
	c.mu.Lock()
	if n != c.latest {
		c.mu.Unlock()
		c.logger.Debug("stale search response discarded", "seq", n)
		return
	}
	c.loading = false

	if err != nil {
		// Failed searches surface the existing result set and disable
		// further load-more triggers. No automatic retry.
		c.exhausted = true
		c.notifyLocked()
		c.logger.Warn("search request failed", "seq", n, "error", err)
		return
	}

	if offset == 0 {
		c.results = nil
		c.seen = make(map[string]struct{})
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	for _, card := range cards {
		if _, dup := c.seen[card.ID]; dup {
			continue
		}
		c.seen[card.ID] = struct{}{}
		c.results = append(c.results, card)
	}
	if len(cards) < c.pageSize {
		c.exhausted = true
	}
	c.notifyLocked()
}

// Snapshot returns the current visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	results := make([]catalog.Card, len(c.results))
	copy(results, c.results)
	return Snapshot{
		Phase:     c.phaseLocked(),
		Results:   results,
		Loading:   c.loading,
		Exhausted: c.exhausted,
	}
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.prompt:
		return PhasePrompt
	case len(c.results) > 0:
		return PhaseResults
	case c.loading:
		return PhaseLoading
	default:
		return PhaseNoResults
	}
}

// notifyLocked snapshots state, releases the lock, and invokes the change
// callback. The callback must not assume it runs on any particular
// goroutine.
func (c *Controller) notifyLocked() {
	snap := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
