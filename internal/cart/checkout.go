package cart

import (
	"context"
	"fmt"
	"strings"
)

// ShippingAddress is the delivery profile required before checkout.
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Street     string `json:"street"`
	House      string `json:"house"`
	Apartment  string `json:"apartment,omitempty"`
	PostalCode string `json:"postalCode"`
}

// MissingFields lists the names of required fields that are blank.
// Apartment is optional.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"city", a.City},
		{"street", a.Street},
		{"house", a.House},
		{"postalCode", a.PostalCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ValidationError reports an incomplete shipping address as the list of
// missing field names, for field-by-field display.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart: shipping address incomplete, missing %s", strings.Join(e.Missing, ", "))
}

// OrderRef identifies a created order.
type OrderRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// OrderPlacer creates the order remotely. The API client implements it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, items []Item, addr ShippingAddress) (OrderRef, error)
}

// Checkout validates the shipping address, places an order for the current
// lines, and clears the cart on success. The cart is left untouched on any
// failure so the user can retry manually.
func (s *Store) Checkout(ctx context.Context, placer OrderPlacer, addr ShippingAddress) (OrderRef, error) {
	if missing := addr.MissingFields(); len(missing) > 0 {
		return OrderRef{}, &ValidationError{Missing: missing}
	}

	items := s.Items()
	if len(items) == 0 {
		return OrderRef{}, ErrEmptyCart
	}

	ref, err := placer.PlaceOrder(ctx, items, addr)
	if err != nil {
		return OrderRef{}, fmt.Errorf("cart: checkout failed: %w", err)
	}

	s.Clear()
	s.logger.Info("checkout complete", "orderId", ref.ID, "lines", len(items))
	return ref, nil
}
