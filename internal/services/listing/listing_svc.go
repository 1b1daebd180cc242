// Package listing applies the auction browser's filter state to the remote,
// server-filtered and paged auction search.
package listing

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"sync"

	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
)

var (
	ErrStaleResponse = errors.New("response superseded by a newer request")
	ErrLoadInFlight  = errors.New("a page load is already in flight")
)

type auctionSearcher interface {
	SearchAuctions(ctx context.Context, q url.Values) (*domain.AuctionPage, error)
}

type IListingService interface {
	Search(ctx context.Context, st *filter.State, page int) domain.AuctionPage
	NewBrowser() *Browser
}

type listingService struct {
	remote   auctionSearcher
	pageSize int
}

func NewListingService(remote auctionSearcher, pageSize int) IListingService {
	return &listingService{remote: remote, pageSize: pageSize}
}

// Search fetches one page. Remote failures degrade to an empty page.
func (svc *listingService) Search(ctx context.Context, st *filter.State, page int) domain.AuctionPage {
	if page < 1 {
		page = 1
	}
	res, err := svc.remote.SearchAuctions(ctx, QueryFromState(st, page, svc.pageSize))
	if err != nil {
		zap.L().Warn("listing.search", zap.Int("page", page), zap.Error(err))
		return domain.AuctionPage{Auctions: []domain.Auction{}, CurrentPage: page}
	}
	if res.Auctions == nil {
		res.Auctions = []domain.Auction{}
	}
	return *res
}

func (svc *listingService) NewBrowser() *Browser {
	return &Browser{remote: svc.remote, pageSize: svc.pageSize}
}

// Snapshot is the browser's current result set.
type Snapshot struct {
	Auctions    []domain.Auction `json:"auctions"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	Total       int              `json:"total"`
	Loading     bool             `json:"loading"`
	HasMore     bool             `json:"hasMore"`
}

// Browser is the stateful result list of one live auction browser view.
// Every Refresh bumps a sequence number and responses from older requests
// are discarded, so a slow early response cannot overwrite a newer one.
type Browser struct {
	remote   auctionSearcher
	pageSize int

	mu          sync.Mutex
	seq         uint64
	items       []domain.Auction
	currentPage int
	totalPages  int
	total       int
	refreshing  bool
	loadingMore bool
}

// Refresh replaces the result set with the first page for st.
func (b *Browser) Refresh(ctx context.Context, st *filter.State) (Snapshot, error) {
	b.mu.Lock()
	b.seq++
	my := b.seq
	b.refreshing = true
	b.mu.Unlock()

	res, err := b.remote.SearchAuctions(ctx, QueryFromState(st, 1, b.pageSize))

	b.mu.Lock()
	defer b.mu.Unlock()
	if my != b.seq {
		return b.snapshotLocked(), ErrStaleResponse
	}
	b.refreshing = false
	if err != nil {
		zap.L().Warn("listing.refresh", zap.Error(err))
		b.items, b.currentPage, b.totalPages, b.total = []domain.Auction{}, 0, 0, 0
		return b.snapshotLocked(), nil
	}
	b.items = slices.Clone(res.Auctions)
	if b.items == nil {
		b.items = []domain.Auction{}
	}
	b.currentPage, b.totalPages, b.total = res.CurrentPage, res.TotalPages, res.Total
	return b.snapshotLocked(), nil
}

// LoadMore appends the next page. It is a no-op once the last page is
// loaded and refuses to run next to another LoadMore.
func (b *Browser) LoadMore(ctx context.Context, st *filter.State) (Snapshot, error) {
	b.mu.Lock()
	if b.loadingMore || b.refreshing {
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, ErrLoadInFlight
	}
	if b.currentPage >= b.totalPages {
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, nil
	}
	b.loadingMore = true
	my := b.seq
	next := b.currentPage + 1
	b.mu.Unlock()

	res, err := b.remote.SearchAuctions(ctx, QueryFromState(st, next, b.pageSize))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadingMore = false
	if my != b.seq || b.currentPage != next-1 {
		return b.snapshotLocked(), ErrStaleResponse
	}
	if err != nil {
		zap.L().Warn("listing.load_more", zap.Int("page", next), zap.Error(err))
		return b.snapshotLocked(), nil
	}
	b.items = append(b.items, res.Auctions...)
	b.currentPage, b.totalPages, b.total = res.CurrentPage, res.TotalPages, res.Total
	return b.snapshotLocked(), nil
}

func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Browser) snapshotLocked() Snapshot {
	items := slices.Clone(b.items)
	if items == nil {
		items = []domain.Auction{}
	}
	return Snapshot{
		Auctions:    items,
		CurrentPage: b.currentPage,
		TotalPages:  b.totalPages,
		Total:       b.total,
		Loading:     b.refreshing || b.loadingMore,
		HasMore:     b.currentPage < b.totalPages,
	}
}
