// Package fixtures loads and validates catalog fixture files for the dev
// server. Fixtures are written in CUE; every file is unified with the
// embedded schema and must be fully concrete before it is accepted.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/shopspring/decimal"

	"github.com/avdeevlv/vitrina/internal/cart"
	"github.com/avdeevlv/vitrina/internal/catalog"
	"github.com/avdeevlv/vitrina/internal/friends"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed default.cue
var defaultCUE []byte

// Product is a fixture product. It carries the category and style
// dimensions the served Card does not expose; the dev server filters on
// them.
type Product struct {
	ID        string   `json:"id"`
	Brand     string   `json:"brand"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	SaleType  string   `json:"saleType,omitempty"`
	Images    []string `json:"images"`
	Sizes     []struct {
		Label   string `json:"label"`
		InStock bool   `json:"inStock"`
	} `json:"sizes"`
	Colors []struct {
		ID     string   `json:"id"`
		Color  string   `json:"color"`
		Images []string `json:"images,omitempty"`
	} `json:"colors,omitempty"`
	Category string `json:"category"`
	Style    string `json:"style"`
}

// Card converts the fixture product into the wire Card shape.
func (p Product) Card() catalog.Card {
	c := catalog.Card{
		ID:     p.ID,
		Brand:  p.Brand,
		Name:   p.Name,
		Price:  decimal.NewFromFloat(p.Price),
		Images: p.Images,
	}
	if p.SalePrice != nil {
		sp := decimal.NewFromFloat(*p.SalePrice)
		c.SalePrice = &sp
		c.SaleType = catalog.SaleType(p.SaleType)
	}
	for _, s := range p.Sizes {
		c.Sizes = append(c.Sizes, catalog.Size{Label: s.Label, InStock: s.InStock})
	}
	for _, v := range p.Colors {
		c.Colors = append(c.Colors, catalog.ColorVariant{ID: v.ID, Color: v.Color, Images: v.Images})
	}
	return c
}

// Shipping is one brand's delivery policy.
type Shipping struct {
	Brand   string  `json:"brand"`
	Cost    float64 `json:"cost"`
	MinDays int     `json:"minDays"`
	MaxDays int     `json:"maxDays"`
}

// User is a fixture user with their seeded relationship to the
// authenticated user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Relation string `json:"relation"`
}

// Catalog is a complete validated fixture set.
type Catalog struct {
	Products        []Product            `json:"products"`
	Brands          []catalog.Ref        `json:"brands"`
	Categories      []catalog.Ref        `json:"categories"`
	Styles          []catalog.Ref        `json:"styles"`
	Shipping        []Shipping           `json:"shipping"`
	Users           []User               `json:"users"`
	Favorites       []string             `json:"favorites"`
	Recommendations map[string][]string  `json:"recommendations"`
	Profile         cart.ShippingAddress `json:"profile"`
}

// PolicyTable converts the fixture shipping policies into the cart's
// estimator form.
func (c *Catalog) PolicyTable() cart.PolicyTable {
	table := cart.DefaultPolicy()
	table.Brands = make(map[string]cart.Estimate, len(c.Shipping))
	for _, s := range c.Shipping {
		table.Brands[s.Brand] = cart.Estimate{
			Cost:    decimal.NewFromFloat(s.Cost),
			MinDays: s.MinDays,
			MaxDays: s.MaxDays,
		}
	}
	return table
}

// FriendUser converts a fixture user to the wire shape.
func (u User) FriendUser() friends.User {
	return friends.User{ID: u.ID, Username: u.Username}
}

// LoadDefault returns the embedded demo catalog.
func LoadDefault() (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(defaultCUE, cue.Filename("default.cue"))
	return decode(ctx, v)
}

// LoadDir loads every .cue file under dir, unifies them into one catalog,
// and validates the result. Files are processed in name order so
// overrides are deterministic.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("fixtures: no .cue files in %s", dir)
	}
	sort.Strings(files)

	ctx := cuecontext.New()
	var v cue.Value
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
		}
		fv := ctx.CompileBytes(data, cue.Filename(path))
		if err := fv.Err(); err != nil {
			return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
		}
		if i == 0 {
			v = fv
		} else {
			v = v.Unify(fv)
		}
	}
	return decode(ctx, v)
}

// decode unifies a fixture value with the schema, validates it, and
// decodes it into a Catalog.
func decode(ctx *cue.Context, v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("fixtures: invalid fixture value: %w", err)
	}

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("fixtures: invalid schema: %w", err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("fixtures: validation failed: %w", err)
	}

	var cat Catalog
	if err := unified.Decode(&cat); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	return &cat, nil
}
