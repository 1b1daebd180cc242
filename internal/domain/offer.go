package domain

import (
	"errors"
	"fmt"
	"time"
)

type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferExpired   OfferStatus = "expired"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// Decision is what moves an offer out of its current status.
type Decision string

const (
	DecisionAccept   Decision = "accept"
	DecisionReject   Decision = "reject"
	DecisionCounter  Decision = "counter"
	DecisionExpire   Decision = "expire"
	DecisionWithdraw Decision = "withdraw"
)

var ErrInvalidTransition = errors.New("invalid offer transition")

type OfferAuction struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartPrice  float64  `json:"startPrice"`
	BuyNowPrice *float64 `json:"buyNowPrice,omitempty"`
}

type Buyer struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type CounterOffer struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message,omitempty"`
}

type Offer struct {
	ID           string        `json:"id"`
	Auction      OfferAuction  `json:"auction"`
	Buyer        Buyer         `json:"buyer"`
	Amount       float64       `json:"amount"`
	Status       OfferStatus   `json:"status"`
	CounterOffer *CounterOffer `json:"counterOffer,omitempty"`
	Message      string        `json:"message,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
}

type OfferStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Accepted      int     `json:"accepted"`
	Rejected      int     `json:"rejected"`
	Countered     int     `json:"countered"`
	Expired       int     `json:"expired"`
	AverageAmount float64 `json:"averageAmount"`
}

var transitions = map[OfferStatus]map[Decision]OfferStatus{
	OfferPending: {
		DecisionAccept:   OfferAccepted,
		DecisionReject:   OfferRejected,
		DecisionCounter:  OfferCountered,
		DecisionExpire:   OfferExpired,
		DecisionWithdraw: OfferWithdrawn,
	},
	// countered offers are settled by the buyer
	OfferCountered: {
		DecisionAccept: OfferAccepted,
		DecisionReject: OfferRejected,
	},
}

// Transition returns the status an offer moves to when d is applied.
func Transition(from OfferStatus, d Decision) (OfferStatus, error) {
	to, ok := transitions[from][d]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s offer", ErrInvalidTransition, d, from)
	}
	return to, nil
}

// Terminal reports whether no further transition is possible.
func (s OfferStatus) Terminal() bool {
	return len(transitions[s]) == 0
}
