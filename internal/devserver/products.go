package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/avdeevlv/vitrina/internal/catalog"
	"github.com/avdeevlv/vitrina/internal/fixtures"
)

const defaultPageSize = 20

// handleSearchProducts serves both the plain product feed and filtered
// search: query substring match on name and brand, multi-select category/
// brand/style filters, limit/offset pagination.
func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := foldQuery(q.Get("query"))
	categories := q["category"]
	brands := q["brand"]
	styles := q["style"]
	limit := parseIntDefault(q.Get("limit"), defaultPageSize)
	offset := parseIntDefault(q.Get("offset"), 0)

	matched := make([]catalog.Card, 0)
	for _, p := range s.catalog.Products {
		if !matchesQuery(p, query) {
			continue
		}
		if !matchesAny(p.Category, categories) ||
			!matchesAny(p.Brand, brands) ||
			!matchesAny(p.Style, styles) {
			continue
		}
		matched = append(matched, p.Card())
	}

	page := paginate(matched, limit, offset)
	writeJSON(w, http.StatusOK, map[string]any{"products": page})
}

// foldQuery normalizes query text so composed and decomposed Unicode forms
// of the same word match the same products.
func foldQuery(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

func matchesQuery(p fixtures.Product, query string) bool {
	if query == "" {
		return true
	}
	name := strings.ToLower(norm.NFC.String(p.Name))
	brand := strings.ToLower(norm.NFC.String(p.Brand))
	return strings.Contains(name, query) || strings.Contains(brand, query)
}

// matchesAny reports whether value matches one of wanted, or wanted is
// empty (no filter active).
func matchesAny(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(value, w) {
			return true
		}
	}
	return false
}

func paginate(cards []catalog.Card, limit, offset int) []catalog.Card {
	if offset >= len(cards) {
		return []catalog.Card{}
	}
	end := offset + limit
	if end > len(cards) {
		end = len(cards)
	}
	return cards[offset:end]
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (s *Server) handleBrands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.catalog.Brands})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.catalog.Categories})
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.catalog.Styles})
}

// cardsByID maps product ids onto served cards, dropping unknown ids.
func (s *Server) cardsByID(ids []string) []catalog.Card {
	byID := make(map[string]fixtures.Product, len(s.catalog.Products))
	for _, p := range s.catalog.Products {
		byID[p.ID] = p
	}
	cards := make([]catalog.Card, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			cards = append(cards, p.Card())
		}
	}
	return cards
}
