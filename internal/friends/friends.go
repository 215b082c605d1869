// Package friends tracks the user's relationship to other users and drives
// the friend-request lifecycle.
//
// Every transition is confirmed by the remote API before local state
// changes. There is no optimistic-then-rollback model: a failed call leaves
// the local status untouched and the error is surfaced to the user as an
// alert.
package friends

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Status is the relationship to one other user.
type Status string

const (
	StatusNotFriend       Status = "not_friend"
	StatusRequestSent     Status = "request_sent"
	StatusRequestReceived Status = "request_received"
	StatusFriend          Status = "friend"
)

// User is another user as the social API describes them.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Request is a pending friend request.
type Request struct {
	ID   string `json:"id"`
	User User   `json:"user"`
}

// Item is one user-relationship record. RequestID is set only in the two
// pending-request statuses.
type Item struct {
	User      User
	Status    Status
	RequestID string
}

// API is the remote boundary for all relationship reads and mutations.
type API interface {
	ListFriends(ctx context.Context) ([]User, error)
	SentRequests(ctx context.Context) ([]Request, error)
	ReceivedRequests(ctx context.Context) ([]Request, error)

	SendFriendRequest(ctx context.Context, userID string) (requestID string, err error)
	CancelFriendRequest(ctx context.Context, requestID string) error
	AcceptFriendRequest(ctx context.Context, requestID string) error
	RejectFriendRequest(ctx context.Context, requestID string) error
	RemoveFriend(ctx context.Context, userID string) error
}

// TransitionError reports a user action that is invalid for the current
// relationship status, e.g. accepting a request that was never received.
type TransitionError struct {
	UserID string
	From   Status
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("friends: cannot %s user %s in status %q", e.Action, e.UserID, e.From)
}

// Manager holds the local relationship map.
//
// Thread-safety: all methods are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	api    API
	logger *slog.Logger
	items  map[string]Item
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty manager. Call Load to populate it.
func NewManager(api API, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		logger: slog.Default(),
		items:  make(map[string]Item),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the local map from the remote friend list and both request
// queues. Any failure leaves the previous map in place.
func (m *Manager) Load(ctx context.Context) error {
	friends, err := m.api.ListFriends(ctx)
	if err != nil {
		return fmt.Errorf("friends: load friend list: %w", err)
	}
	sent, err := m.api.SentRequests(ctx)
	if err != nil {
		return fmt.Errorf("friends: load sent requests: %w", err)
	}
	received, err := m.api.ReceivedRequests(ctx)
	if err != nil {
		return fmt.Errorf("friends: load received requests: %w", err)
	}

	items := make(map[string]Item, len(friends)+len(sent)+len(received))
	for _, u := range friends {
		items[u.ID] = Item{User: u, Status: StatusFriend}
	}
	for _, r := range sent {
		items[r.User.ID] = Item{User: r.User, Status: StatusRequestSent, RequestID: r.ID}
	}
	for _, r := range received {
		items[r.User.ID] = Item{User: r.User, Status: StatusRequestReceived, RequestID: r.ID}
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	m.logger.Debug("friend state loaded",
		"friends", len(friends), "sent", len(sent), "received", len(received))
	return nil
}

// StatusOf returns the relationship status for a user. Unknown users are
// not friends.
func (m *Manager) StatusOf(userID string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[userID]; ok {
		return item.Status
	}
	return StatusNotFriend
}

// Items returns all known relationship records sorted by username.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].User.Username < items[j].User.Username })
	return items
}

// Send sends a friend request to a user we have no relationship with. The
// local status moves to request_sent only after the remote call succeeds.
func (m *Manager) Send(ctx context.Context, user User) error {
	if st := m.StatusOf(user.ID); st != StatusNotFriend {
		return &TransitionError{UserID: user.ID, From: st, Action: "send request to"}
	}
	requestID, err := m.api.SendFriendRequest(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("friends: send request: %w", err)
	}
	m.set(Item{User: user, Status: StatusRequestSent, RequestID: requestID})
	return nil
}

// Cancel withdraws a request we sent.
func (m *Manager) Cancel(ctx context.Context, userID string) error {
	item, st := m.lookup(userID)
	if st != StatusRequestSent {
		return &TransitionError{UserID: userID, From: st, Action: "cancel request for"}
	}
	if err := m.api.CancelFriendRequest(ctx, item.RequestID); err != nil {
		return fmt.Errorf("friends: cancel request: %w", err)
	}
	m.delete(userID)
	return nil
}

// Accept confirms a request we received; the sender becomes a friend.
func (m *Manager) Accept(ctx context.Context, userID string) error {
	item, st := m.lookup(userID)
	if st != StatusRequestReceived {
		return &TransitionError{UserID: userID, From: st, Action: "accept request from"}
	}
	if err := m.api.AcceptFriendRequest(ctx, item.RequestID); err != nil {
		return fmt.Errorf("friends: accept request: %w", err)
	}
	m.set(Item{User: item.User, Status: StatusFriend})
	return nil
}

// Reject declines a request we received.
func (m *Manager) Reject(ctx context.Context, userID string) error {
	item, st := m.lookup(userID)
	if st != StatusRequestReceived {
		return &TransitionError{UserID: userID, From: st, Action: "reject request from"}
	}
	if err := m.api.RejectFriendRequest(ctx, item.RequestID); err != nil {
		return fmt.Errorf("friends: reject request: %w", err)
	}
	m.delete(userID)
	return nil
}

// Remove ends an existing friendship.
func (m *Manager) Remove(ctx context.Context, userID string) error {
	_, st := m.lookup(userID)
	if st != StatusFriend {
		return &TransitionError{UserID: userID, From: st, Action: "remove"}
	}
	if err := m.api.RemoveFriend(ctx, userID); err != nil {
		return fmt.Errorf("friends: remove friend: %w", err)
	}
	m.delete(userID)
	return nil
}

func (m *Manager) lookup(userID string) (Item, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[userID]; ok {
		return item, item.Status
	}
	return Item{}, StatusNotFriend
}

func (m *Manager) set(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.User.ID] = item
}

func (m *Manager) delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
}
