// Package httperr maps service and remote errors onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/auction"
	"ironbid/internal/services/offer"
)

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

// Write responds with the status that best describes err. Remote failures
// keep the server's message when it sent one, otherwise fallback is used.
func Write(c *gin.Context, err error, fallback string) {
	var (
		ve     *offer.ValidationError
		apiErr *remoteapi.APIError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	case errors.Is(err, offer.ErrUnsupportedDecision):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrAuctionNotFound), errors.Is(err, offer.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, offer.ErrNotPending), errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, ErrorResponse{Error: remoteapi.ServerMessage(err, fallback)})
	default:
		zap.L().Warn("http.remote_failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: fallback})
	}
}

// BadRequest is the response for a request that failed binding.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
