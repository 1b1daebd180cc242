package auctionhandler

import (
	"ironbid/internal/domain"
)

type ListAuctionsQuery struct {
	Page int `form:"page,default=1" binding:"gte=1"`
} // @name ListAuctionsQuery

type ListAuctionsResponse struct {
	domain.AuctionPage
	// canonical filter query after dropping unknown subcategories
	Query string `json:"query" example:"category=excavators&search=cat"`
} // @name ListAuctionsResponse

type QuoteQuery struct {
	Base        float64 `form:"base"        binding:"gte=0"                                              example:"25000"`
	AuctionType string  `form:"auctionType" binding:"omitempty,oneof=standard reserve buy_now giveaway" example:"buy_now"`
} // @name QuoteQuery

type PlaceOfferBody struct {
	Amount  float64 `json:"amount"  binding:"required,gt=0" example:"18500"`
	Message string  `json:"message" binding:"max=500"       example:"Can pick up next week"`
} // @name PlaceOfferRequest

type CategoryQuery struct {
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
} // @name CategoryQuery

type CategoriesResponse struct {
	Carousel []domain.Category `json:"carousel"`
	Path     []string          `json:"path"`
} // @name CategoriesResponse
