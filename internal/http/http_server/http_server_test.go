package http_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironbid/internal/http/auctionhandler"
	"ironbid/internal/http/offerhandler"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/auction"
	"ironbid/internal/services/catalog"
	"ironbid/internal/services/commission"
	"ironbid/internal/services/listing"
	"ironbid/internal/services/offer"
	"ironbid/internal/ws"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/categories/public/parents":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"slug":"cranes","name":"Cranes","auctionCount":3}]}`))
		case "/api/v1/commissions":
			_, _ = w.Write([]byte(`{"commissionType":"percentage","commissionValue":10}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(remote.Close)

	client := remoteapi.NewWithHTTPClient(remote.Client(), remote.URL)
	catalogSvc := catalog.NewCatalogService(client, nil)
	commissionSvc := commission.NewCommissionService(client, nil)
	listingSvc := listing.NewListingService(client, 12)
	offerSvc := offer.NewOfferService(client, nil)
	auctionSvc := auction.NewAuctionService(client, catalogSvc, commissionSvc)
	origins := []string{"http://localhost:3000"}

	srv := NewHttpServer(context.Background(), 0, "", origins,
		ws.NewWsServer(ws.NewHub(), nil, listingSvc, offerSvc, time.Millisecond, origins),
		auctionhandler.New(listingSvc, auctionSvc, catalogSvc, commissionSvc, offerSvc),
		offerhandler.New(offerSvc),
	)
	return srv.Engine()
}

func TestEngine_routes(t *testing.T) {
	e := newEngine(t)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories/parents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"slug":"cranes","name":"Cranes","auctionCount":3}]`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quote?base=200", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"base":200,"fee":20,"total":220,"commissionType":"percentage","giveaway":false}`, w.Body.String())

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/broker/offers", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auctions/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEngine_cors(t *testing.T) {
	e := newEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auctions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
