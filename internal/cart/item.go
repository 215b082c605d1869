package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avdeevlv/vitrina/internal/catalog"
)

// Item is one cart line: a card bound to a chosen size and quantity.
//
// LineID is unique within the cart even for repeated additions of the same
// product and size: each add produces an independent line. It combines the
// product id, the size, and a random suffix.
type Item struct {
	LineID   string       `json:"lineId"`
	Card     catalog.Card `json:"card"`
	Size     string       `json:"size"`
	Quantity int          `json:"quantity"`
	Delivery Estimate     `json:"delivery"`
	AddedAt  time.Time    `json:"addedAt"`
}

// Subtotal is the line's effective price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Card.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// newLineID builds the opaque per-line identifier.
func newLineID(productID, size string) string {
	return fmt.Sprintf("%s:%s:%s", productID, size, uuid.NewString())
}
