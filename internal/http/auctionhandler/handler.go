package auctionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
	"ironbid/internal/http/httperr"
	"ironbid/internal/http/middleware"
	"ironbid/internal/services/auction"
	"ironbid/internal/services/catalog"
	"ironbid/internal/services/commission"
	"ironbid/internal/services/listing"
	"ironbid/internal/services/offer"
)

type Handler struct {
	listing    listing.IListingService
	auctions   auction.IAuctionService
	catalog    catalog.ICatalogService
	commission commission.ICommissionService
	offers     offer.IOfferService
}

func New(
	listingSvc listing.IListingService,
	auctionSvc auction.IAuctionService,
	catalogSvc catalog.ICatalogService,
	commissionSvc commission.ICommissionService,
	offerSvc offer.IOfferService,
) *Handler {
	return &Handler{
		listing:    listingSvc,
		auctions:   auctionSvc,
		catalog:    catalogSvc,
		commission: commissionSvc,
		offers:     offerSvc,
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/auctions", h.list)
	r.GET("/auctions/:id", h.info)
	r.GET("/auctions/:id/quote", h.auctionQuote)
	r.POST("/auctions/:id/offers", middleware.RequireSession(), h.placeOffer)
	r.GET("/categories", h.categories)
	r.GET("/categories/parents", h.parents)
	r.GET("/categories/:slug/children", h.children)
	r.GET("/quote", h.quote)
}

// @Summary		Search auctions
// @Description	Applies the browser filter query to the remote auction search and returns one page.
// @Tags			Auctions
// @Param			category	query		string	false	"Parent category slug"
// @Param			subcategory	query		string	false	"Child category slug"
// @Param			search		query		string	false	"Free-text search"
// @Param			status		query		string	false	"Status filter"	default(active)
// @Param			priceMin	query		number	false	"Minimum price"
// @Param			priceMax	query		number	false	"Maximum price"
// @Param			location	query		string	false	"Location"
// @Param			auctionType	query		string	false	"Auction type"	Enums(standard,reserve,buy_now,giveaway)
// @Param			allowOffers	query		bool	false	"Only auctions accepting offers"
// @Param			sortBy		query		string	false	"Sort field"
// @Param			sortOrder	query		string	false	"Sort order"	Enums(asc,desc)
// @Param			page		query		int		false	"Page"			minimum(1)	default(1)
// @Success		200			{object}	ListAuctionsResponse
// @Failure		400			{object}	httperr.ErrorResponse
// @Router			/api/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	st, err := filter.ParseQuery(c.Request.URL.RawQuery, filter.BrowserDefaults())
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}
	for _, k := range st.Keys() {
		if !k.Recognized() {
			st = st.Without(k)
		}
	}

	ctx := c.Request.Context()
	if sub := st.Get(filter.Subcategory); sub != "" {
		if path := h.catalog.ResolveSelection(ctx, st.Get(filter.Category), sub); len(path) < 2 {
			st = st.Without(filter.Subcategory)
		}
	}

	page := h.listing.Search(ctx, st, q.Page)
	c.JSON(http.StatusOK, ListAuctionsResponse{AuctionPage: page, Query: st.Encode()})
}

// @Summary		Get auction details
// @Description	Returns the auction with labeled specifications and the buy-now quote.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	auction.AuctionDetailDTO
// @Failure		404	{object}	httperr.ErrorResponse
// @Failure		502	{object}	httperr.ErrorResponse
// @Router			/api/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	dto, err := h.auctions.GetAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Write(c, err, "Failed to load auction")
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Buy-now quote
// @Description	Advisory service fee and total for buying the auction outright. Empty for auctions without buy-now.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	commission.Quote
// @Success		204
// @Failure		404	{object}	httperr.ErrorResponse
// @Router			/api/auctions/{id}/quote [get]
func (h *Handler) auctionQuote(c *gin.Context) {
	q, err := h.auctions.BuyNowQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Write(c, err, "Failed to load auction")
		return
	}
	if q == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary		Make an offer
// @Description	Buyer offers a price below buy-now. Requires a bearer token.
// @Tags			Offers
// @Security		BearerAuth
// @Param			id		path		string			true	"Auction ID"
// @Param			body	body		PlaceOfferBody	true	"Offer payload"
// @Success		201		{object}	domain.Offer
// @Failure		400		{object}	httperr.ErrorResponse
// @Failure		401		{object}	httperr.ErrorResponse
// @Router			/api/auctions/{id}/offers [post]
func (h *Handler) placeOffer(c *gin.Context) {
	var body PlaceOfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	o, err := h.offers.PlaceOffer(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), body.Amount, body.Message)
	if err != nil {
		httperr.Write(c, err, "Failed to submit offer")
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary		Category carousel
// @Description	Parent categories with images, plus the validated category path for the given selection.
// @Tags			Categories
// @Param			category	query		string	false	"Parent category slug"
// @Param			subcategory	query		string	false	"Child category slug"
// @Success		200			{object}	CategoriesResponse
// @Router			/api/categories [get]
func (h *Handler) categories(c *gin.Context) {
	var q CategoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, CategoriesResponse{
		Carousel: h.catalog.ParentsWithImages(ctx),
		Path:     h.catalog.ResolveSelection(ctx, q.Category, q.Subcategory),
	})
}

// @Summary		Parent categories
// @Tags			Categories
// @Success		200	{array}	domain.Category
// @Router			/api/categories/parents [get]
func (h *Handler) parents(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Parents(c.Request.Context()))
}

// @Summary		Child categories
// @Tags			Categories
// @Param			slug	path	string	true	"Parent category slug"
// @Success		200		{array}	domain.Category
// @Router			/api/categories/{slug}/children [get]
func (h *Handler) children(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Children(c.Request.Context(), c.Param("slug")))
}

// @Summary		Fee quote
// @Description	Advisory commission and total for an arbitrary base amount.
// @Tags			Commission
// @Param			base		query		number	true	"Base amount"
// @Param			auctionType	query		string	false	"Auction type"	Enums(standard,reserve,buy_now,giveaway)
// @Success		200			{object}	commission.Quote
// @Failure		400			{object}	httperr.ErrorResponse
// @Router			/api/quote [get]
func (h *Handler) quote(c *gin.Context) {
	var q QuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.commission.Quote(c.Request.Context(), q.Base, domain.AuctionType(q.AuctionType)))
}
