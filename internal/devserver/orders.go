package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avdeevlv/vitrina/internal/cart"
)

type createOrderRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	Address cart.ShippingAddress `json:"address"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}
	if missing := body.Address.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "address incomplete: "+strings.Join(missing, ", "))
		return
	}

	order := orderRecord{
		ID:      "ord-" + uuid.NewString(),
		Status:  "created",
		Payment: "pending",
	}
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	s.logger.Info("order created", "orderId", order.ID, "lines", len(body.Items))
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     order.ID,
		"status": order.Status,
	})
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	s.mu.Lock()
	order, ok := s.orders[orderID]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"orderId": order.ID,
		"status":  order.Payment,
	})
}

func (s *Server) handleShippingProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Profile)
}

func (s *Server) handleShippingPolicies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"policies": s.catalog.Shipping})
}
