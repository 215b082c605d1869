// Package devserver is an in-process implementation of the remote
// storefront API, backed by CUE fixtures. It exists so CLI demo sessions
// and end-to-end tests can run against the full REST surface without a
// network.
//
// State beyond the fixture catalog (friend requests, orders, payments) is
// in-memory and per-run.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avdeevlv/vitrina/internal/fixtures"
	"github.com/avdeevlv/vitrina/internal/friends"
)

// Server holds the fixture catalog and the mutable per-run state.
type Server struct {
	logger  *slog.Logger
	catalog *fixtures.Catalog

	mu sync.Mutex
	// Relationship state for the single authenticated user, keyed by the
	// other user's id.
	friendSet map[string]friends.User
	sent      map[string]friends.Request // keyed by request id
	received  map[string]friends.Request // keyed by request id
	orders    map[string]orderRecord
}

type orderRecord struct {
	ID      string
	Status  string
	Payment string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server over the given fixture catalog, seeding friend
// state from each fixture user's relation field.
func New(catalog *fixtures.Catalog, opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		catalog:   catalog,
		friendSet: make(map[string]friends.User),
		sent:      make(map[string]friends.Request),
		received:  make(map[string]friends.Request),
		orders:    make(map[string]orderRecord),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, u := range catalog.Users {
		fu := u.FriendUser()
		switch u.Relation {
		case "friend":
			s.friendSet[u.ID] = fu
		case "sent":
			id := seedRequestID("sent", i)
			s.sent[id] = friends.Request{ID: id, User: fu}
		case "received":
			id := seedRequestID("received", i)
			s.received[id] = friends.Request{ID: id, User: fu}
		}
	}
	return s
}

func seedRequestID(kind string, i int) string {
	return "req-" + kind + "-" + strconv.Itoa(i)
}

// Handler builds the HTTP router for the full API surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireBearer)

		r.Get("/products", s.handleSearchProducts)
		r.Get("/brands", s.handleBrands)
		r.Get("/categories", s.handleCategories)
		r.Get("/styles", s.handleStyles)

		r.Get("/friends", s.handleListFriends)
		r.Delete("/friends/{userID}", s.handleRemoveFriend)
		r.Get("/friends/requests/sent", s.handleSentRequests)
		r.Get("/friends/requests/received", s.handleReceivedRequests)
		r.Post("/friends/requests", s.handleSendRequest)
		r.Delete("/friends/requests/{requestID}", s.handleCancelRequest)
		r.Post("/friends/requests/{requestID}/accept", s.handleAcceptRequest)
		r.Post("/friends/requests/{requestID}/reject", s.handleRejectRequest)
		r.Get("/friends/{userID}/recommendations", s.handleRecommendations)

		r.Get("/favorites", s.handleFavorites)

		r.Post("/orders", s.handleCreateOrder)
		r.Get("/payments/{orderID}", s.handlePaymentStatus)

		r.Get("/profile/shipping", s.handleShippingProfile)
		r.Get("/shipping/policies", s.handleShippingPolicies)
	})

	return r
}

// requireBearer rejects requests without a bearer token. Any non-empty
// token is accepted; the dev server has exactly one user.
func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
