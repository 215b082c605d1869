package catalog

import (
	"github.com/shopspring/decimal"
)

// SaleType describes how a sale price relates to the base price.
type SaleType string

const (
	// SaleTypeNone means the card is not on sale.
	SaleTypeNone SaleType = ""
	// SaleTypePercent means the sale price was derived from a percentage discount.
	SaleTypePercent SaleType = "percent"
	// SaleTypeFixed means the sale price is a fixed markdown.
	SaleTypeFixed SaleType = "fixed"
)

// Size is a single size option on a card.
type Size struct {
	Label   string `json:"label"`
	InStock bool   `json:"inStock"`
}

// ColorVariant is an alternate colorway of the same product.
type ColorVariant struct {
	ID     string   `json:"id"`
	Color  string   `json:"color"`
	Images []string `json:"images,omitempty"`
}

// Card is a single product's display unit within the swipe deck or a
// search grid.
//
// A Card is immutable once fetched, with one exception: the Liked flag is
// toggled locally. Everything else (price, sizes, images) only changes by
// re-fetching the card from the remote catalog.
type Card struct {
	ID        string           `json:"id"`
	Brand     string           `json:"brand"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	SaleType  SaleType         `json:"saleType,omitempty"`
	Images    []string         `json:"images,omitempty"`
	Sizes     []Size           `json:"sizes,omitempty"`
	Colors    []ColorVariant   `json:"colors,omitempty"`
	Liked     bool             `json:"liked"`
}

// EffectivePrice returns the sale price when the card is on sale, and the
// base price otherwise.
func (c Card) EffectivePrice() decimal.Decimal {
	if c.SalePrice != nil {
		return *c.SalePrice
	}
	return c.Price
}

// OnSale reports whether the card carries a sale price.
func (c Card) OnSale() bool {
	return c.SalePrice != nil
}

// SizeInStock reports whether the card offers the given size label and the
// size is currently available.
func (c Card) SizeInStock(label string) bool {
	for _, s := range c.Sizes {
		if s.Label == label {
			return s.InStock
		}
	}
	return false
}

// HasSize reports whether the card offers the given size label at all,
// in stock or not.
func (c Card) HasSize(label string) bool {
	for _, s := range c.Sizes {
		if s.Label == label {
			return true
		}
	}
	return false
}
