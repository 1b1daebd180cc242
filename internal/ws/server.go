package ws

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
	"ironbid/internal/http/middleware"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/listing"
	"ironbid/internal/services/offer"
	"ironbid/internal/session"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 12 * time.Second
	pingPeriod      = 3 * time.Second // must be < pongWait
	dispatchTimeout = 15 * time.Second
	readLimit       = 4096
)

var ErrUnknownFilter = errors.New("unknown_filter")

type WsServer struct {
	hub        *Hub
	subMgr     *subscriptionManager
	router     *Router
	upgrader   websocket.Upgrader
	listingSvc listing.IListingService
	offerSvc   offer.IOfferService
	debounce   time.Duration
	now        func() time.Time
}

func NewWsServer(
	h *Hub,
	rdc *redis.Client,
	listingSvc listing.IListingService,
	offerSvc offer.IOfferService,
	debounce time.Duration,
	allowedOrigins []string,
) *WsServer {
	srv := &WsServer{
		hub:        h,
		subMgr:     newSubscriptionManager(rdc, h),
		router:     NewRouter(),
		listingSvc: listingSvc,
		offerSvc:   offerSvc,
		debounce:   debounce,
		now:        time.Now,
	}
	srv.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")
		},
	}
	srv.registerHandlers() // all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	view := ginCtx.DefaultQuery("view", ViewAuctions)
	if view != ViewAuctions && view != ViewOffers {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "view must be auctions or offers"})
		return
	}
	sess := middleware.SessionFrom(ginCtx)
	if view == ViewOffers && !sess.Authenticated() {
		ginCtx.JSON(http.StatusUnauthorized, gin.H{"error": "the offers view requires a session"})
		return
	}
	if view == ViewOffers && !sess.IsBroker() {
		ginCtx.JSON(http.StatusForbidden, gin.H{"error": session.ErrNotBroker.Error()})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(readLimit)

	wsConn := &clientConn{rawConn: rawConn}
	cc := s.newConnContext(view, sess, wsConn)

	if view == ViewOffers {
		wsConn.onBroadcast = func() {
			ctx, cancel := context.WithTimeout(cc.ctx, dispatchTimeout)
			defer cancel()
			cc.reloadOffers(ctx)
		}
		s.hub.Join(sess.Username, wsConn)
		s.subMgr.Subscribe(sess.Username) // may be a no-op (already subscribed)

		// Initial snapshot.
		ctx, cancel := context.WithTimeout(cc.ctx, dispatchTimeout)
		cc.reloadOffers(ctx)
		cancel()
	}
	zap.L().Debug("ws.connected", zap.String("view", view), zap.String("user", sess.Username))

	go s.reader(cc)
	go s.pinger(cc)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	Register(s.router, "filters/load",
		func(_ context.Context, cc *ConnContext, req LoadFiltersRequest) (QueryBody, error) {
			st, err := cc.filters.LoadFromURL(req.Query)
			if err != nil {
				return QueryBody{}, err
			}
			return QueryBody{Query: st.Encode()}, nil
		})

	Register(s.router, "filters/set",
		func(_ context.Context, cc *ConnContext, req SetFilterRequest) (AckBody, error) {
			key := filter.Key(req.Key)
			if !key.Recognized() {
				return AckBody{}, ErrUnknownFilter
			}
			return AckBody{}, cc.filters.Set(key, req.Value)
		})

	Register(s.router, "filters/reset",
		func(_ context.Context, cc *ConnContext, _ AckBody) (AckBody, error) {
			cc.filters.Reset()
			return AckBody{}, nil
		})

	Register(s.router, "listing/more",
		func(ctx context.Context, cc *ConnContext, _ AckBody) (AckBody, error) {
			_, err := cc.loadMore(ctx)
			if errors.Is(err, listing.ErrStaleResponse) {
				// a refresh replaced the list meanwhile
				return AckBody{}, nil
			}
			return AckBody{}, err
		}, ViewAuctions)

	Register(s.router, "offers/refresh",
		func(ctx context.Context, cc *ConnContext, _ AckBody) (AckBody, error) {
			cc.reloadOffers(ctx)
			return AckBody{}, nil
		}, ViewOffers)

	Register(s.router, "offers/respond",
		func(ctx context.Context, cc *ConnContext, req RespondRequest) (AckBody, error) {
			offers, err := s.offerSvc.Respond(ctx, cc.Session, offer.RespondRequest{
				AuctionID:      req.AuctionID,
				OfferID:        req.OfferID,
				Decision:       domain.Decision(req.Response),
				Message:        req.Message,
				CounterAmount:  req.CounterAmount,
				CounterMessage: req.CounterMessage,
				Known:          cc.dashboard.Offers(),
			})
			if err != nil {
				return AckBody{}, err
			}
			cc.dashboard.Replace(offers)
			cc.pushOffersView(cc.filters.State())
			return AckBody{}, nil
		}, ViewOffers)
}

func (s *WsServer) reader(cc *ConnContext) {
	conn := cc.conn
	defer func() {
		cc.close()
		if cc.View == ViewOffers {
			s.hub.Leave(cc.Session.Username, conn)
			s.subMgr.Unsubscribe(cc.Session.Username)
		} else {
			_ = conn.rawConn.Close()
		}
		zap.L().Debug("ws.disconnected", zap.String("view", cc.View), zap.String("user", cc.Session.Username))
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(cc.ctx, dispatchTimeout)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			_ = conn.push("error", ErrorBody{Error: errorMessage(err)})
			continue
		}

		// ---- success -> {"event":"<evt>-ack", "body":{...}} --------
		_ = conn.push(env.Event+"-ack", res)
	}
}

func (s *WsServer) pinger(cc *ConnContext) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-cc.ctx.Done():
			return
		case <-ticker.C:
			if err := cc.conn.ping(); err != nil {
				_ = cc.conn.rawConn.Close()
				return
			}
		}
	}
}

// errorMessage prefers what a user can act on: validation text or the
// remote server's message.
func errorMessage(err error) string {
	var ve *offer.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return remoteapi.ServerMessage(err, err.Error())
}
