package cart

import "github.com/shopspring/decimal"

// Estimate is a delivery cost and time window, computed per brand shipping
// policy at the moment a line is added.
type Estimate struct {
	Cost    decimal.Decimal `json:"cost"`
	MinDays int             `json:"minDays"`
	MaxDays int             `json:"maxDays"`
}

// Estimator computes the delivery estimate for a brand.
type Estimator interface {
	EstimateDelivery(brand string) Estimate
}

// PolicyTable is a static brand-to-estimate table with a fallback, the
// simplest useful Estimator. Brands ship under their own policies; anything
// unlisted gets the default.
type PolicyTable struct {
	Brands  map[string]Estimate
	Default Estimate
}

// EstimateDelivery implements Estimator.
func (p PolicyTable) EstimateDelivery(brand string) Estimate {
	if e, ok := p.Brands[brand]; ok {
		return e
	}
	return p.Default
}

// DefaultPolicy is the fallback shipping policy used when no fixture or
// config supplies one: flat-rate courier delivery in two to five days.
func DefaultPolicy() PolicyTable {
	return PolicyTable{
		Default: Estimate{
			Cost:    decimal.NewFromInt(350),
			MinDays: 2,
			MaxDays: 5,
		},
	}
}
