package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/avdeevlv/vitrina/internal/cart"
)

// PaymentStatus is the remote payment state of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type orderLine struct {
	ProductID string          `json:"productId"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderRequest struct {
	Items   []orderLine          `json:"items"`
	Address cart.ShippingAddress `json:"address"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PlaceOrder creates an order for the given cart lines. Implements
// cart.OrderPlacer.
func (c *Client) PlaceOrder(ctx context.Context, items []cart.Item, addr cart.ShippingAddress) (cart.OrderRef, error) {
	req := orderRequest{
		Items:   make([]orderLine, len(items)),
		Address: addr,
	}
	for i, item := range items {
		req.Items[i] = orderLine{
			ProductID: item.Card.ID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Card.EffectivePrice(),
		}
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", nil, req, &resp); err != nil {
		return cart.OrderRef{}, err
	}
	return cart.OrderRef{ID: resp.ID, Status: resp.Status}, nil
}

// OrderPaymentStatus looks up the payment state of a created order.
func (c *Client) OrderPaymentStatus(ctx context.Context, orderID string) (PaymentStatus, error) {
	var resp struct {
		OrderID string        `json:"orderId"`
		Status  PaymentStatus `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/payments/"+orderID, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// ShippingProfile fetches the saved delivery address of the current user.
func (c *Client) ShippingProfile(ctx context.Context) (cart.ShippingAddress, error) {
	var addr cart.ShippingAddress
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile/shipping", nil, nil, &addr); err != nil {
		return cart.ShippingAddress{}, err
	}
	return addr, nil
}

// ShippingPolicies fetches the per-brand delivery policy table. Brands the
// server does not list fall back to the flat default rate.
func (c *Client) ShippingPolicies(ctx context.Context) (cart.PolicyTable, error) {
	var resp struct {
		Policies []struct {
			Brand   string          `json:"brand"`
			Cost    decimal.Decimal `json:"cost"`
			MinDays int             `json:"minDays"`
			MaxDays int             `json:"maxDays"`
		} `json:"policies"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/shipping/policies", nil, nil, &resp); err != nil {
		return cart.PolicyTable{}, err
	}

	table := cart.DefaultPolicy()
	table.Brands = make(map[string]cart.Estimate, len(resp.Policies))
	for _, p := range resp.Policies {
		table.Brands[p.Brand] = cart.Estimate{
			Cost:    p.Cost,
			MinDays: p.MinDays,
			MaxDays: p.MaxDays,
		}
	}
	return table, nil
}
