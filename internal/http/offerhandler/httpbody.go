package offerhandler

import (
	"ironbid/internal/domain"
	"ironbid/internal/offerview"
)

type RespondBody struct {
	Response       string   `json:"response"       binding:"required,oneof=accept reject counter" example:"counter"`
	Message        string   `json:"message"        binding:"max=500"                              example:"Thanks for the offer"`
	CounterAmount  *float64 `json:"counterAmount"  binding:"omitempty,gt=0"                       example:"2500"`
	CounterMessage string   `json:"counterMessage" binding:"max=500"                              example:"Lowest I can go"`
} // @name RespondToOfferRequest

type OffersViewResponse struct {
	Offers         []domain.Offer        `json:"offers"`
	Total          int                   `json:"total"`
	Criteria       offerview.Criteria    `json:"criteria"`
	AuctionOptions []domain.OfferAuction `json:"auctionOptions"`
} // @name OffersView

type AcceptWarningResponse struct {
	// pending offers on the same auction the server rejects on accept
	Competing int `json:"competing" example:"2"`
} // @name AcceptWarning
