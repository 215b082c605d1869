package devserver

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdeevlv/vitrina/internal/friends"
)

func (s *Server) handleListFriends(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := make([]friends.User, 0, len(s.friendSet))
	for _, u := range s.friendSet {
		list = append(list, u)
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	writeJSON(w, http.StatusOK, map[string]any{"friends": list})
}

func (s *Server) handleSentRequests(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := requestList(s.sent)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"requests": list})
}

func (s *Server) handleReceivedRequests(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := requestList(s.received)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"requests": list})
}

func requestList(m map[string]friends.Request) []friends.Request {
	list := make([]friends.Request, 0, len(m))
	for _, r := range m {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, ok := s.lookupUser(body.UserID)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, isFriend := s.friendSet[body.UserID]; isFriend {
		writeError(w, http.StatusConflict, "already friends")
		return
	}
	for _, req := range s.sent {
		if req.User.ID == body.UserID {
			writeError(w, http.StatusConflict, "request already sent")
			return
		}
	}

	id := "req-" + uuid.NewString()
	s.sent[id] = friends.Request{ID: id, User: user}
	s.logger.Debug("friend request created", "requestId", id, "userId", body.UserID)
	writeJSON(w, http.StatusCreated, map[string]string{"requestId": id})
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[id]; !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	delete(s.sent, id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.received[id]
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	delete(s.received, id)
	s.friendSet[req.User.ID] = req.User
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.received[id]; !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	delete(s.received, id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.friendSet[userID]; !ok {
		writeError(w, http.StatusNotFound, "friend not found")
		return
	}
	delete(s.friendSet, userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ids, ok := s.catalog.Recommendations[userID]
	if !ok {
		// No curated list for this friend is an empty result, not an error.
		ids = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": s.cardsByID(ids)})
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"products": s.cardsByID(s.catalog.Favorites)})
}

func (s *Server) lookupUser(id string) (friends.User, bool) {
	for _, u := range s.catalog.Users {
		if u.ID == id {
			return u.FriendUser(), true
		}
	}
	return friends.User{}, false
}
