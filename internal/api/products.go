package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/avdeevlv/vitrina/internal/catalog"
	"github.com/avdeevlv/vitrina/internal/search"
)

type productsResponse struct {
	Products []catalog.Card `json:"products"`
}

type refsResponse struct {
	Items []catalog.Ref `json:"items"`
}

// SearchProducts runs one paginated product search. Implements
// search.Searcher.
func (c *Client) SearchProducts(ctx context.Context, req search.Request) ([]catalog.Card, error) {
	q := url.Values{}
	if req.Text != "" {
		q.Set("query", req.Text)
	}
	for _, v := range req.Filters.Categories {
		q.Add("category", v)
	}
	for _, v := range req.Filters.Brands {
		q.Add("brand", v)
	}
	for _, v := range req.Filters.Styles {
		q.Add("style", v)
	}
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("offset", strconv.Itoa(req.Offset))

	var resp productsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ListProducts fetches one unfiltered page of the product feed.
func (c *Client) ListProducts(ctx context.Context, limit, offset int) ([]catalog.Card, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp productsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Brands enumerates all brands.
func (c *Client) Brands(ctx context.Context) ([]catalog.Ref, error) {
	return c.refs(ctx, "/api/v1/brands")
}

// Categories enumerates all categories.
func (c *Client) Categories(ctx context.Context) ([]catalog.Ref, error) {
	return c.refs(ctx, "/api/v1/categories")
}

// Styles enumerates all styles.
func (c *Client) Styles(ctx context.Context) ([]catalog.Ref, error) {
	return c.refs(ctx, "/api/v1/styles")
}

func (c *Client) refs(ctx context.Context, path string) ([]catalog.Ref, error) {
	var resp refsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FeedSource pages through the product feed for the swipe deck. It tracks
// its own offset so the deck can just ask for "more". Satisfies
// deck.Source.
type FeedSource struct {
	mu     sync.Mutex
	c      *Client
	offset int
}

// NewFeedSource creates a feed source starting at the top of the feed.
func NewFeedSource(c *Client) *FeedSource {
	return &FeedSource{c: c}
}

// NextCards fetches the next feed page. The offset advances by the number
// of cards the server returned, duplicates included; deduplication is the
// deck's concern.
func (f *FeedSource) NextCards(ctx context.Context, limit int) ([]catalog.Card, error) {
	f.mu.Lock()
	offset := f.offset
	f.mu.Unlock()

	cards, err := f.c.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.offset = offset + len(cards)
	f.mu.Unlock()
	return cards, nil
}
