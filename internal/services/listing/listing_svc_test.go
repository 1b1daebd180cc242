package listing

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []url.Values
	respond func(q url.Values) (*domain.AuctionPage, error)
}

func (f *fakeSearcher) SearchAuctions(_ context.Context, q url.Values) (*domain.AuctionPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	return f.respond(q)
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// pages serves totalPages pages of two auctions each.
func pages(totalPages int) func(q url.Values) (*domain.AuctionPage, error) {
	return func(q url.Values) (*domain.AuctionPage, error) {
		p, _ := strconv.Atoi(q.Get("page"))
		return &domain.AuctionPage{
			Auctions: []domain.Auction{
				{ID: "p" + q.Get("page") + "-1"},
				{ID: "p" + q.Get("page") + "-2"},
			},
			CurrentPage: p,
			TotalPages:  totalPages,
			Total:       totalPages * 2,
		}, nil
	}
}

func auctionIDs(s Snapshot) []string {
	out := make([]string, 0, len(s.Auctions))
	for _, a := range s.Auctions {
		out = append(out, a.ID)
	}
	return out
}

func TestQueryFromState(t *testing.T) {
	t.Parallel()

	st, err := filter.ParseQuery("category=excavators&subcategory=mini&search=cat&allowOffers=true&sortBy=currentPrice&sortOrder=asc", filter.BrowserDefaults())
	require.NoError(t, err)

	q := QueryFromState(st, 3, 12)
	assert.Equal(t, []string{"excavators", "mini"}, q["categories[]"])
	assert.Equal(t, "active", q.Get("status"))
	assert.Equal(t, "cat", q.Get("search"))
	assert.Equal(t, "true", q.Get("allowOffers"))
	assert.Equal(t, "currentPrice", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortOrder"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "12", q.Get("limit"))
	assert.NotContains(t, q, "priceMin")
	assert.NotContains(t, q, "category")
}

func TestQueryFromState_noCategory(t *testing.T) {
	t.Parallel()

	q := QueryFromState(filter.NewState(nil), 1, 0)
	assert.NotContains(t, q, "categories[]")
	assert.NotContains(t, q, "limit")
}

func TestBrowser_RefreshReplacesAndLoadMoreAppends(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: pages(2)}
	b := NewListingService(f, 2).NewBrowser()
	st := filter.NewState(filter.BrowserDefaults())

	snap, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1-1", "p1-2"}, auctionIDs(snap))
	assert.True(t, snap.HasMore)

	snap, err = b.LoadMore(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1-1", "p1-2", "p2-1", "p2-2"}, auctionIDs(snap))
	assert.False(t, snap.HasMore)

	// last page reached: no request
	snap, err = b.LoadMore(context.Background(), st)
	require.NoError(t, err)
	assert.Len(t, snap.Auctions, 4)
	assert.Equal(t, 2, f.callCount())

	snap, err = b.Refresh(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1-1", "p1-2"}, auctionIDs(snap))
}

func TestBrowser_LoadMoreBeforeRefreshIsNoop(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: pages(3)}
	b := NewListingService(f, 2).NewBrowser()

	snap, err := b.LoadMore(context.Background(), filter.NewState(nil))
	require.NoError(t, err)
	assert.Empty(t, snap.Auctions)
	assert.Equal(t, 0, f.callCount())
}

func TestBrowser_staleRefreshIsDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	f := &fakeSearcher{respond: func(q url.Values) (*domain.AuctionPage, error) {
		if q.Get("search") == "slow" {
			close(started)
			<-release
			return &domain.AuctionPage{Auctions: []domain.Auction{{ID: "slow"}}, CurrentPage: 1, TotalPages: 1}, nil
		}
		return &domain.AuctionPage{Auctions: []domain.Auction{{ID: "fast"}}, CurrentPage: 1, TotalPages: 1}, nil
	}}
	b := NewListingService(f, 2).NewBrowser()

	slow, _ := filter.ParseQuery("search=slow", nil)
	fast, _ := filter.ParseQuery("search=fast", nil)

	done := make(chan error, 1)
	go func() {
		_, err := b.Refresh(context.Background(), slow)
		done <- err
	}()
	<-started

	snap, err := b.Refresh(context.Background(), fast)
	require.NoError(t, err)
	assert.Equal(t, []string{"fast"}, auctionIDs(snap))

	close(release)
	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, []string{"fast"}, auctionIDs(b.Snapshot()))
}

func TestBrowser_concurrentLoadMoreIsRefused(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	base := pages(5)
	f := &fakeSearcher{respond: func(q url.Values) (*domain.AuctionPage, error) {
		if q.Get("page") == "2" {
			close(started)
			<-release
		}
		return base(q)
	}}
	b := NewListingService(f, 2).NewBrowser()
	st := filter.NewState(nil)

	_, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := b.LoadMore(context.Background(), st)
		done <- err
	}()
	<-started

	snap, err := b.LoadMore(context.Background(), st)
	assert.ErrorIs(t, err, ErrLoadInFlight)
	assert.True(t, snap.Loading)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, b.Snapshot().Auctions, 4)
	assert.Equal(t, 2, f.callCount())
}

func TestBrowser_refreshDuringLoadMoreDropsThePage(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	base := pages(5)
	f := &fakeSearcher{respond: func(q url.Values) (*domain.AuctionPage, error) {
		if q.Get("page") == "2" {
			close(started)
			<-release
		}
		return base(q)
	}}
	b := NewListingService(f, 2).NewBrowser()
	st := filter.NewState(nil)
	_, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := b.LoadMore(context.Background(), st)
		done <- err
	}()
	<-started

	_, err = b.Refresh(context.Background(), st)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, []string{"p1-1", "p1-2"}, auctionIDs(b.Snapshot()))
}

func TestBrowser_loadMoreWhileRefreshingIsRefused(t *testing.T) {
	t.Parallel()

	var gate atomic.Bool
	release := make(chan struct{})
	started := make(chan struct{})
	base := pages(5)
	f := &fakeSearcher{respond: func(q url.Values) (*domain.AuctionPage, error) {
		if gate.Load() && q.Get("page") == "1" {
			close(started)
			<-release
		}
		return base(q)
	}}
	b := NewListingService(f, 2).NewBrowser()
	st := filter.NewState(nil)
	_, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)
	_, err = b.LoadMore(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, 2, f.callCount())

	gate.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := b.Refresh(context.Background(), st)
		done <- err
	}()
	<-started

	snap, err := b.LoadMore(context.Background(), st)
	assert.ErrorIs(t, err, ErrLoadInFlight)
	assert.True(t, snap.Loading)
	assert.Equal(t, 3, f.callCount())

	close(release)
	require.NoError(t, <-done)
	snap = b.Snapshot()
	assert.Equal(t, []string{"p1-1", "p1-2"}, auctionIDs(snap))
	assert.Equal(t, 1, snap.CurrentPage)
	assert.False(t, snap.Loading)
}

func TestBrowser_refreshFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	fail := false
	f := &fakeSearcher{respond: func(q url.Values) (*domain.AuctionPage, error) {
		if fail {
			return nil, errors.New("502")
		}
		return pages(1)(q)
	}}
	b := NewListingService(f, 2).NewBrowser()
	st := filter.NewState(nil)

	_, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)

	fail = true
	snap, err := b.Refresh(context.Background(), st)
	require.NoError(t, err)
	assert.Empty(t, snap.Auctions)
	assert.False(t, snap.HasMore)
}

func TestListingService_Search(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: pages(4)}
	svc := NewListingService(f, 12)

	page := svc.Search(context.Background(), filter.NewState(nil), 0)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Auctions, 2)

	f.respond = func(url.Values) (*domain.AuctionPage, error) { return nil, errors.New("down") }
	page = svc.Search(context.Background(), filter.NewState(nil), 2)
	assert.Empty(t, page.Auctions)
	assert.NotNil(t, page.Auctions)
	assert.Equal(t, 2, page.CurrentPage)
}
