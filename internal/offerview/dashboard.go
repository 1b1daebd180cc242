package offerview

import (
	"slices"
	"sync"
	"time"

	"ironbid/internal/domain"
)

// Dashboard holds the broker's fetched offers and memoizes the last derived
// view on (collection revision, criteria).
type Dashboard struct {
	mu       sync.Mutex
	offers   []domain.Offer
	revision uint64
	now      func() time.Time

	memoRev  uint64
	memoCrit Criteria
	memo     []domain.Offer
	hasMemo  bool
}

func NewDashboard(now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{now: now}
}

// Replace swaps in a freshly fetched collection.
func (d *Dashboard) Replace(offers []domain.Offer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offers = slices.Clone(offers)
	d.revision++
	d.hasMemo = false
}

func (d *Dashboard) Offers() []domain.Offer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.offers)
}

// View returns the filtered, sorted offers for c.
func (d *Dashboard) View(c Criteria) []domain.Offer {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hasMemo && d.memoRev == d.revision && d.memoCrit == c {
		return slices.Clone(d.memo)
	}
	d.memo = Apply(d.offers, c, d.now())
	d.memoRev = d.revision
	d.memoCrit = c
	d.hasMemo = true
	return slices.Clone(d.memo)
}

// AuctionOptions lists the distinct auctions in the collection, in first-seen
// order, for the dashboard's auction filter.
func (d *Dashboard) AuctionOptions() []domain.OfferAuction {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := map[string]bool{}
	out := []domain.OfferAuction{}
	for _, o := range d.offers {
		if seen[o.Auction.ID] {
			continue
		}
		seen[o.Auction.ID] = true
		out = append(out, o.Auction)
	}
	return out
}
