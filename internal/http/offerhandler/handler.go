package offerhandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
	"ironbid/internal/http/httperr"
	"ironbid/internal/http/middleware"
	"ironbid/internal/offerview"
	"ironbid/internal/services/offer"
)

type Handler struct {
	svc offer.IOfferService
	now func() time.Time
}

func New(svc offer.IOfferService) *Handler { return &Handler{svc: svc, now: time.Now} }

// Register mounts the broker routes; all of them require a broker session.
func (h *Handler) Register(r gin.IRoutes) {
	r.Use(middleware.RequireBroker())
	r.GET("/offers", h.list)
	r.GET("/offers/stats", h.stats)
	r.GET("/offers/:auctionId/:offerId/accept-warning", h.acceptWarning)
	r.POST("/offers/:auctionId/:offerId/respond", h.respond)
}

// @Summary		Received offers
// @Description	Every offer on the broker's auctions, filtered and sorted with the dashboard query.
// @Tags			Broker
// @Security		BearerAuth
// @Param			search		query		string	false	"Matches auction title, buyer username or name"
// @Param			status		query		string	false	"Offer status"	default(all)	Enums(all,pending,accepted,rejected,countered,expired,withdrawn)
// @Param			auction		query		string	false	"Auction ID"	default(all)
// @Param			dateRange	query		string	false	"Created within"	default(all)	Enums(all,today,week,month)
// @Param			sortBy		query		string	false	"Ordering"	default(recent)	Enums(recent,oldest,amount_high,amount_low,expiring_soon)
// @Success		200			{object}	OffersViewResponse
// @Failure		401			{object}	httperr.ErrorResponse
// @Failure		403			{object}	httperr.ErrorResponse
// @Router			/api/broker/offers [get]
func (h *Handler) list(c *gin.Context) {
	st, err := filter.ParseQuery(c.Request.URL.RawQuery, filter.DashboardDefaults())
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}
	all := h.svc.List(c.Request.Context(), middleware.SessionFrom(c))
	crit := offerview.CriteriaFromState(st)

	d := offerview.NewDashboard(h.now)
	d.Replace(all)
	c.JSON(http.StatusOK, OffersViewResponse{
		Offers:         d.View(crit),
		Total:          len(all),
		Criteria:       crit,
		AuctionOptions: d.AuctionOptions(),
	})
}

// @Summary		Offer statistics
// @Tags			Broker
// @Security		BearerAuth
// @Success		200	{object}	domain.OfferStats
// @Failure		401	{object}	httperr.ErrorResponse
// @Router			/api/broker/offers/stats [get]
func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(c.Request.Context(), middleware.SessionFrom(c)))
}

// @Summary		Accept warning
// @Description	Number of other pending offers on the auction that accepting this one rejects.
// @Tags			Broker
// @Security		BearerAuth
// @Param			auctionId	path		string	true	"Auction ID"
// @Param			offerId		path		string	true	"Offer ID"
// @Success		200			{object}	AcceptWarningResponse
// @Failure		404			{object}	httperr.ErrorResponse
// @Router			/api/broker/offers/{auctionId}/{offerId}/accept-warning [get]
func (h *Handler) acceptWarning(c *gin.Context) {
	offers := h.svc.List(c.Request.Context(), middleware.SessionFrom(c))
	for _, o := range offers {
		if o.ID == c.Param("offerId") && o.Auction.ID == c.Param("auctionId") {
			c.JSON(http.StatusOK, AcceptWarningResponse{Competing: h.svc.AcceptWarning(offers, o)})
			return
		}
	}
	httperr.Write(c, offer.ErrOfferNotFound, "")
}

// @Summary		Respond to an offer
// @Description	Accept, reject or counter a pending offer. Returns the re-fetched offer list.
// @Tags			Broker
// @Security		BearerAuth
// @Param			auctionId	path		string		true	"Auction ID"
// @Param			offerId		path		string		true	"Offer ID"
// @Param			body		body		RespondBody	true	"Decision payload"
// @Success		200			{array}		domain.Offer
// @Failure		400			{object}	httperr.ErrorResponse
// @Failure		404			{object}	httperr.ErrorResponse
// @Failure		409			{object}	httperr.ErrorResponse
// @Router			/api/broker/offers/{auctionId}/{offerId}/respond [post]
func (h *Handler) respond(c *gin.Context) {
	var body RespondBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	offers, err := h.svc.Respond(c.Request.Context(), middleware.SessionFrom(c), offer.RespondRequest{
		AuctionID:      c.Param("auctionId"),
		OfferID:        c.Param("offerId"),
		Decision:       domain.Decision(body.Response),
		Message:        body.Message,
		CounterAmount:  body.CounterAmount,
		CounterMessage: body.CounterMessage,
	})
	if err != nil {
		httperr.Write(c, err, "Failed to respond to offer")
		return
	}
	c.JSON(http.StatusOK, offers)
}
