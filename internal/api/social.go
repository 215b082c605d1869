package api

import (
	"context"
	"net/http"

	"github.com/avdeevlv/vitrina/internal/catalog"
	"github.com/avdeevlv/vitrina/internal/friends"
)

// The social area implements friends.API plus favorites and
// friend-specific recommendations.

type friendsResponse struct {
	Friends []friends.User `json:"friends"`
}

type requestsResponse struct {
	Requests []friends.Request `json:"requests"`
}

// ListFriends fetches the confirmed friend list.
func (c *Client) ListFriends(ctx context.Context) ([]friends.User, error) {
	var resp friendsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/friends", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

// SentRequests fetches requests this user has sent and that are still
// pending.
func (c *Client) SentRequests(ctx context.Context) ([]friends.Request, error) {
	return c.requests(ctx, "/api/v1/friends/requests/sent")
}

// ReceivedRequests fetches pending requests addressed to this user.
func (c *Client) ReceivedRequests(ctx context.Context) ([]friends.Request, error) {
	return c.requests(ctx, "/api/v1/friends/requests/received")
}

func (c *Client) requests(ctx context.Context, path string) ([]friends.Request, error) {
	var resp requestsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// SendFriendRequest creates a pending request to userID and returns the
// request id for later cancellation.
func (c *Client) SendFriendRequest(ctx context.Context, userID string) (string, error) {
	in := map[string]string{"userId": userID}
	var resp struct {
		RequestID string `json:"requestId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/friends/requests", nil, in, &resp); err != nil {
		return "", err
	}
	return resp.RequestID, nil
}

// CancelFriendRequest withdraws a request this user sent.
func (c *Client) CancelFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/friends/requests/"+requestID, nil, nil, nil)
}

// AcceptFriendRequest confirms a received request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/friends/requests/"+requestID+"/accept", nil, nil, nil)
}

// RejectFriendRequest declines a received request.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/friends/requests/"+requestID+"/reject", nil, nil, nil)
}

// RemoveFriend ends an existing friendship.
func (c *Client) RemoveFriend(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/friends/"+userID, nil, nil, nil)
}

// Favorites fetches the user's favorited products.
func (c *Client) Favorites(ctx context.Context) ([]catalog.Card, error) {
	var resp productsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// RecommendationsForFriend fetches products recommended as gifts for one
// friend.
func (c *Client) RecommendationsForFriend(ctx context.Context, friendID string) ([]catalog.Card, error) {
	var resp productsResponse
	path := "/api/v1/friends/" + friendID + "/recommendations"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}
