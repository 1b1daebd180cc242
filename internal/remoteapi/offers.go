package remoteapi

import (
	"context"
	"net/http"
	"net/url"

	"ironbid/internal/domain"
	"ironbid/internal/session"
)

type RespondPayload struct {
	Response       string   `json:"response"`
	Message        string   `json:"message"`
	CounterAmount  *float64 `json:"counterAmount,omitempty"`
	CounterMessage string   `json:"counterMessage,omitempty"`
}

type PlaceOfferPayload struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message,omitempty"`
}

func (c *Client) SellerOffers(ctx context.Context, sess session.Session) ([]domain.Offer, error) {
	var out []domain.Offer
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/offers/seller", sess: &sess}, &out)
	return out, err
}

func (c *Client) SellerOfferStats(ctx context.Context, sess session.Session) (*domain.OfferStats, error) {
	out := &domain.OfferStats{}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/offers/seller/stats", sess: &sess}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RespondToOffer(ctx context.Context, sess session.Session, auctionID, offerID string, p RespondPayload) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/offers/auction/" + url.PathEscape(auctionID) + "/offer/" + url.PathEscape(offerID) + "/respond",
		sess:   &sess,
		body:   p,
	}, nil)
}

func (c *Client) PlaceOffer(ctx context.Context, sess session.Session, auctionID string, p PlaceOfferPayload) (*domain.Offer, error) {
	out := &domain.Offer{}
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/offers/auction/" + url.PathEscape(auctionID),
		sess:   &sess,
		body:   p,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
