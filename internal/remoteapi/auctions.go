package remoteapi

import (
	"context"
	"net/http"
	"net/url"

	"ironbid/internal/domain"
)

// SearchAuctions runs a server-side filtered, paged auction search.
func (c *Client) SearchAuctions(ctx context.Context, q url.Values) (*domain.AuctionPage, error) {
	out := &domain.AuctionPage{}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/auctions", query: q}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Auction(ctx context.Context, id string) (*domain.Auction, error) {
	out := &domain.Auction{}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/auctions/" + url.PathEscape(id)}, out); err != nil {
		return nil, err
	}
	return out, nil
}
