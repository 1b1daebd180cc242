package domain

import "time"

type AuctionType string

const (
	AuctionTypeStandard AuctionType = "standard"
	AuctionTypeReserve  AuctionType = "reserve"
	AuctionTypeBuyNow   AuctionType = "buy_now"
	AuctionTypeGiveaway AuctionType = "giveaway"
)

type AuctionStatus string

const (
	AuctionStatusActive   AuctionStatus = "active"
	AuctionStatusApproved AuctionStatus = "approved"
	AuctionStatusEnded    AuctionStatus = "ended"
	AuctionStatusSold     AuctionStatus = "sold"
)

// Auction is a transient, non-authoritative copy of a remote auction.
type Auction struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	CategoryPath   []string       `json:"categories"`
	AuctionType    AuctionType    `json:"auctionType"`
	StartPrice     float64        `json:"startPrice"`
	BuyNowPrice    *float64       `json:"buyNowPrice,omitempty"`
	CurrentPrice   float64        `json:"currentPrice"`
	AllowOffers    bool           `json:"allowOffers"`
	Status         AuctionStatus  `json:"status"`
	Location       string         `json:"location,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Specifications Specifications `json:"specifications,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	EndsAt         time.Time      `json:"endsAt"`
}

// CategorySlug returns the most specific category of the auction, or "".
func (a Auction) CategorySlug() string {
	if len(a.CategoryPath) == 0 {
		return ""
	}
	return a.CategoryPath[len(a.CategoryPath)-1]
}

// AuctionPage is one page of a remote, server-filtered auction search.
type AuctionPage struct {
	Auctions    []Auction `json:"auctions"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	Total       int       `json:"total"`
}
