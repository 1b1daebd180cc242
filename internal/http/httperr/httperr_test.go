package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ironbid/internal/domain"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/auction"
	"ironbid/internal/services/offer"
)

func TestWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", &offer.ValidationError{Field: "amount", Message: "too low"}, http.StatusBadRequest, `{"error":"too low"}`},
		{"not found", auction.ErrAuctionNotFound, http.StatusNotFound, `{"error":"auction not found"}`},
		{"conflict", fmt.Errorf("%w: counter on accepted offer", domain.ErrInvalidTransition), http.StatusConflict, ""},
		{"remote 4xx", &remoteapi.APIError{Status: http.StatusForbidden, Message: "Not your auction"}, http.StatusForbidden, `{"error":"Not your auction"}`},
		{"remote 5xx", &remoteapi.APIError{Status: http.StatusInternalServerError}, http.StatusBadGateway, `{"error":"Failed"}`},
		{"transport", errors.New("dial tcp: refused"), http.StatusBadGateway, `{"error":"Failed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Write(c, tt.err, "Failed")
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
