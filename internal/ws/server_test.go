package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironbid/internal/domain"
	"ironbid/internal/http/middleware"
	"ironbid/internal/services/listing"
	"ironbid/internal/services/offer"
	"ironbid/internal/session"
)

type fakeSearcher struct{}

func (fakeSearcher) SearchAuctions(_ context.Context, q url.Values) (*domain.AuctionPage, error) {
	p, _ := strconv.Atoi(q.Get("page"))
	return &domain.AuctionPage{
		Auctions:    []domain.Auction{{ID: q.Get("search") + "-" + q.Get("page")}},
		CurrentPage: p,
		TotalPages:  2,
		Total:       2,
	}, nil
}

type fakeOffers struct {
	offer.IOfferService
}

func (f *fakeOffers) List(context.Context, session.Session) []domain.Offer {
	return []domain.Offer{
		{ID: "o1", Auction: domain.OfferAuction{ID: "a1", Title: "Dozer"}, Amount: 100, Status: domain.OfferPending},
		{ID: "o2", Auction: domain.OfferAuction{ID: "a2", Title: "Crane"}, Amount: 200, Status: domain.OfferRejected},
	}
}

func newTestServer(t *testing.T, offers *fakeOffers) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	srv := NewWsServer(hub, nil, listing.NewListingService(fakeSearcher{}, 1), offers, 20*time.Millisecond, nil)
	r := gin.New()
	r.Use(middleware.Session(""))
	r.GET("/ws", srv.Handle)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
	c, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Cleanup(func() { _ = c.Close() })
	}
	return c, resp, err
}

type frame struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body"`
}

func send(t *testing.T, c *websocket.Conn, event string, body any) {
	t.Helper()
	require.NoError(t, c.WriteJSON(map[string]any{"event": event, "body": body}))
}

// readUntil reads frames until event arrives and returns its body.
func readUntil(t *testing.T, c *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var f frame
		require.NoError(t, c.ReadJSON(&f), "waiting for %s", event)
		if f.Event == event {
			return f.Body
		}
	}
}

func brokerToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "b1", "username": "hauler", "role": session.RoleBroker}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestAuctionsView_loadSetAndMore(t *testing.T) {
	ts, _ := newTestServer(t, &fakeOffers{})
	c, _, err := dial(t, ts, "view=auctions")
	require.NoError(t, err)

	send(t, c, "filters/load", LoadFiltersRequest{Query: "subcategory=mini&search=cat"})
	var q QueryBody
	require.NoError(t, json.Unmarshal(readUntil(t, c, "url/replace"), &q))
	assert.Equal(t, "search=cat", q.Query)

	var snap listing.Snapshot
	require.NoError(t, json.Unmarshal(readUntil(t, c, "listing/page"), &snap))
	require.Len(t, snap.Auctions, 1)
	assert.Equal(t, "cat-1", snap.Auctions[0].ID)
	assert.True(t, snap.HasMore)

	send(t, c, "listing/more", nil)
	require.NoError(t, json.Unmarshal(readUntil(t, c, "listing/page"), &snap))
	assert.Len(t, snap.Auctions, 2)
	readUntil(t, c, "listing/more-ack")

	send(t, c, "filters/set", SetFilterRequest{Key: "search", Value: "dozer"})
	require.NoError(t, json.Unmarshal(readUntil(t, c, "url/replace"), &q))
	assert.Equal(t, "search=dozer", q.Query)

	// debounced refresh
	require.NoError(t, json.Unmarshal(readUntil(t, c, "listing/page"), &snap))
	require.Len(t, snap.Auctions, 1)
	assert.Equal(t, "dozer-1", snap.Auctions[0].ID)
}

func TestAuctionsView_errors(t *testing.T) {
	ts, _ := newTestServer(t, &fakeOffers{})
	c, _, err := dial(t, ts, "")
	require.NoError(t, err)

	send(t, c, "filters/set", SetFilterRequest{Key: "color", Value: "yellow"})
	var e ErrorBody
	require.NoError(t, json.Unmarshal(readUntil(t, c, "error"), &e))
	assert.Equal(t, ErrUnknownFilter.Error(), e.Error)

	send(t, c, "filters/set", SetFilterRequest{Key: "subcategory", Value: "mini"})
	require.NoError(t, json.Unmarshal(readUntil(t, c, "error"), &e))
	assert.Contains(t, e.Error, "subcategory")

	send(t, c, "offers/refresh", nil)
	require.NoError(t, json.Unmarshal(readUntil(t, c, "error"), &e))
	assert.Equal(t, ErrWrongView.Error(), e.Error)

	send(t, c, "nope", nil)
	require.NoError(t, json.Unmarshal(readUntil(t, c, "error"), &e))
	assert.Equal(t, ErrUnknownEvent.Error(), e.Error)
}

func TestOffersView_requiresSession(t *testing.T) {
	ts, _ := newTestServer(t, &fakeOffers{})

	_, resp, err := dial(t, ts, "view=offers")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	buyer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u9", "username": "digger", "role": "buyer"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, resp, err = dial(t, ts, "view=offers&token="+buyer)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dial(t, ts, "view=charts")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOffersView_snapshotFiltersAndBroadcast(t *testing.T) {
	ts, hub := newTestServer(t, &fakeOffers{})
	c, _, err := dial(t, ts, "view=offers&token="+brokerToken(t))
	require.NoError(t, err)

	var view OffersViewBody
	require.NoError(t, json.Unmarshal(readUntil(t, c, "offers/view"), &view))
	assert.Len(t, view.Offers, 2)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "all", view.Criteria.Status)

	send(t, c, "filters/set", SetFilterRequest{Key: "status", Value: "pending"})
	require.NoError(t, json.Unmarshal(readUntil(t, c, "offers/view"), &view))
	require.Len(t, view.Offers, 1)
	assert.Equal(t, "o1", view.Offers[0].ID)
	assert.Equal(t, 2, view.Total)

	msg, err := wrapRedisEvent(`{"version":1,"event":"changed","offerId":"o1","status":"accepted"}`)
	require.NoError(t, err)
	hub.Broadcast("hauler", msg)

	var changed map[string]any
	require.NoError(t, json.Unmarshal(readUntil(t, c, "offers/changed"), &changed))
	assert.Equal(t, "o1", changed["offerId"])
	// the dashboard re-fetches after a change event
	readUntil(t, c, "offers/view")
}
