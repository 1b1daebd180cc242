package ws

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ironbid/internal/filter"
	"ironbid/internal/offerview"
	"ironbid/internal/services/listing"
	"ironbid/internal/session"
)

const (
	ViewAuctions = "auctions"
	ViewOffers   = "offers"
)

// ConnContext is the state of one live view: its filter synchronizer and
// either the auction browser or the offers dashboard.
type ConnContext struct {
	View    string
	Session session.Session

	ctx    context.Context
	cancel context.CancelFunc
	conn   *clientConn
	server *WsServer

	filters   *filter.Synchronizer
	browser   *listing.Browser
	dashboard *offerview.Dashboard
}

func (s *WsServer) newConnContext(view string, sess session.Session, conn *clientConn) *ConnContext {
	ctx, cancel := context.WithCancel(context.Background())
	cc := &ConnContext{
		View:    view,
		Session: sess,
		ctx:     ctx,
		cancel:  cancel,
		conn:    conn,
		server:  s,
	}

	defaults := filter.BrowserDefaults()
	if view == ViewOffers {
		defaults = filter.DashboardDefaults()
		cc.dashboard = offerview.NewDashboard(s.now)
	} else {
		cc.browser = s.listingSvc.NewBrowser()
	}
	cc.filters = filter.NewSynchronizer(
		defaults,
		filter.URLReplacerFunc(cc.replaceURL),
		filter.NewDebouncer(s.debounce),
		cc.propagate,
	)
	return cc
}

func (cc *ConnContext) replaceURL(query string) {
	if err := cc.conn.push("url/replace", QueryBody{Query: query}); err != nil {
		zap.L().Debug("ws.push", zap.String("event", "url/replace"), zap.Error(err))
	}
}

// propagate receives every effective filter state. Listing refreshes run in
// the background so the reader keeps serving events; the browser discards
// responses that were overtaken by a newer refresh.
func (cc *ConnContext) propagate(st *filter.State) {
	if cc.ctx.Err() != nil {
		return
	}
	if cc.View == ViewOffers {
		cc.pushOffersView(st)
		return
	}
	go cc.refreshListing(st)
}

func (cc *ConnContext) refreshListing(st *filter.State) {
	snap, err := cc.browser.Refresh(cc.ctx, st)
	if errors.Is(err, listing.ErrStaleResponse) || cc.ctx.Err() != nil {
		return
	}
	_ = cc.conn.push("listing/page", snap)
}

func (cc *ConnContext) loadMore(ctx context.Context) (listing.Snapshot, error) {
	snap, err := cc.browser.LoadMore(ctx, cc.filters.State())
	if err != nil {
		return snap, err
	}
	return snap, cc.conn.push("listing/page", snap)
}

// reloadOffers re-fetches the broker's offers and pushes the derived view.
func (cc *ConnContext) reloadOffers(ctx context.Context) {
	cc.dashboard.Replace(cc.server.offerSvc.List(ctx, cc.Session))
	cc.pushOffersView(cc.filters.State())
}

func (cc *ConnContext) offersView(st *filter.State) OffersViewBody {
	crit := offerview.CriteriaFromState(st)
	return OffersViewBody{
		Offers:         cc.dashboard.View(crit),
		Total:          len(cc.dashboard.Offers()),
		Criteria:       crit,
		AuctionOptions: cc.dashboard.AuctionOptions(),
	}
}

func (cc *ConnContext) pushOffersView(st *filter.State) {
	if err := cc.conn.push("offers/view", cc.offersView(st)); err != nil {
		zap.L().Debug("ws.push", zap.String("event", "offers/view"), zap.Error(err))
	}
}

func (cc *ConnContext) close() {
	cc.cancel()
	cc.filters.Close()
}
