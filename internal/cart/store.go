// Package cart holds the process-wide shared cart as an observable store.
//
// The store is the single shared mutable resource of the client. Views
// subscribe for change notifications instead of polling it on an interval;
// semantics stay last-writer-wins, with all mutations driven by
// user-initiated actions. Checkout validates the shipping address and
// places the order through an injected OrderPlacer.
package cart

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avdeevlv/vitrina/internal/catalog"
)

var (
	// ErrSizeUnavailable is returned when the chosen size is missing or out
	// of stock on the card.
	ErrSizeUnavailable = errors.New("cart: size unavailable")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
	// ErrEmptyCart is returned by Checkout when there is nothing to order.
	ErrEmptyCart = errors.New("cart: cart is empty")
)

// Store is the observable shared cart.
//
// Thread-safety: all methods are safe for concurrent use. Subscribers are
// invoked outside the store lock, on the goroutine that performed the
// mutation.
type Store struct {
	mu sync.Mutex

	estimator Estimator
	logger    *slog.Logger
	now       func() time.Time

	items []Item

	subs    map[int]func([]Item)
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithNow substitutes the time source, for deterministic AddedAt in tests.
func WithNow(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty cart using the given shipping estimator.
func NewStore(estimator Estimator, opts ...StoreOption) *Store {
	s := &Store{
		estimator: estimator,
		logger:    slog.Default(),
		now:       time.Now,
		subs:      make(map[int]func([]Item)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new line for card in the chosen size. Two successive adds
// of the same product and size produce two independent lines with distinct
// LineIDs.
func (s *Store) Add(card catalog.Card, size string, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if !card.SizeInStock(size) {
		return Item{}, ErrSizeUnavailable
	}

	s.mu.Lock()
	item := Item{
		LineID:   newLineID(card.ID, size),
		Card:     card,
		Size:     size,
		Quantity: quantity,
		Delivery: s.estimator.EstimateDelivery(card.Brand),
		AddedAt:  s.now(),
	}
	s.items = append(s.items, item)
	s.logger.Debug("cart line added", "lineId", item.LineID, "brand", card.Brand)
	s.notifyLocked()
	return item, nil
}

// Remove deletes the line with the given id. Reports whether a line was
// removed.
func (s *Store) Remove(lineID string) bool {
	s.mu.Lock()
	for i, item := range s.items {
		if item.LineID == lineID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.notifyLocked()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Clear empties the cart. Runs on logout and after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.notifyLocked()
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the line subtotals plus delivery costs.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal()).Add(item.Delivery.Cost)
	}
	return total
}

// Subscribe registers a change callback and returns its subscription id.
// The callback receives a copy of the full line list after every mutation.
func (s *Store) Subscribe(fn func([]Item)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return id
}

// Unsubscribe removes a change callback.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Store) copyLocked() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// notifyLocked snapshots the lines, releases the lock, and invokes every
// subscriber.
func (s *Store) notifyLocked() {
	items := s.copyLocked()
	subs := make([]func([]Item), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(items)
	}
}
