package ws

import (
	"encoding/json"

	"ironbid/internal/domain"
	"ironbid/internal/offerview"
)

// Envelope wraps every incoming WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "filters/set"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

type outgoing struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// LoadFiltersRequest is the body for "filters/load": the page's URL query.
type LoadFiltersRequest struct {
	Query string `json:"query"`
}

// SetFilterRequest is the body for "filters/set".
type SetFilterRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryBody carries a canonical filter query ("url/replace", "filters/load-ack").
type QueryBody struct {
	Query string `json:"query"`
}

// RespondRequest is the body for "offers/respond".
type RespondRequest struct {
	AuctionID      string   `json:"auctionId"`
	OfferID        string   `json:"offerId"`
	Response       string   `json:"response"`
	Message        string   `json:"message"`
	CounterAmount  *float64 `json:"counterAmount"`
	CounterMessage string   `json:"counterMessage"`
}

type OffersViewBody struct {
	Offers         []domain.Offer        `json:"offers"`
	Total          int                   `json:"total"`
	Criteria       offerview.Criteria    `json:"criteria"`
	AuctionOptions []domain.OfferAuction `json:"auctionOptions"`
}

// Empty ACK body (useful for many handlers).
type AckBody struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
