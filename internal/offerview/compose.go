// Package offerview derives the broker dashboard's filtered and sorted view
// from the full offer list fetched once from the remote API.
package offerview

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"ironbid/internal/domain"
	"ironbid/internal/filter"
)

const (
	SortRecent       = "recent"
	SortOldest       = "oldest"
	SortAmountHigh   = "amount_high"
	SortAmountLow    = "amount_low"
	SortExpiringSoon = "expiring_soon"

	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

type Criteria struct {
	Search    string `json:"search"`
	Status    string `json:"status"`
	AuctionID string `json:"auction"`
	DateRange string `json:"dateRange"`
	SortBy    string `json:"sortBy"`
}

func CriteriaFromState(st *filter.State) Criteria {
	return Criteria{
		Search:    st.Get(filter.Search),
		Status:    st.Get(filter.Status),
		AuctionID: st.Get(filter.Auction),
		DateRange: st.Get(filter.DateRange),
		SortBy:    st.Get(filter.SortBy),
	}
}

type predicate func(o *domain.Offer) bool

// Apply returns the offers matching every active criterion, sorted by
// c.SortBy. The input slice is never modified.
func Apply(offers []domain.Offer, c Criteria, now time.Time) []domain.Offer {
	preds := predicates(c, now)

	out := make([]domain.Offer, 0, len(offers))
	for i := range offers {
		if matchAll(&offers[i], preds) {
			out = append(out, offers[i])
		}
	}
	slices.SortStableFunc(out, comparator(c.SortBy))
	return out
}

func predicates(c Criteria, now time.Time) []predicate {
	var preds []predicate

	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		preds = append(preds, func(o *domain.Offer) bool {
			for _, field := range []string{o.Auction.Title, o.Buyer.Username, o.Buyer.FirstName, o.Buyer.LastName} {
				if strings.Contains(strings.ToLower(field), term) {
					return true
				}
			}
			return false
		})
	}
	if c.Status != "" && c.Status != filter.All {
		preds = append(preds, func(o *domain.Offer) bool { return string(o.Status) == c.Status })
	}
	if c.AuctionID != "" && c.AuctionID != filter.All {
		preds = append(preds, func(o *domain.Offer) bool { return o.Auction.ID == c.AuctionID })
	}
	if cutoff, ok := Cutoff(c.DateRange, now); ok {
		preds = append(preds, func(o *domain.Offer) bool { return !o.CreatedAt.Before(cutoff) })
	}
	return preds
}

func matchAll(o *domain.Offer, preds []predicate) bool {
	for _, p := range preds {
		if !p(o) {
			return false
		}
	}
	return true
}

// Cutoff returns the earliest creation time admitted by a date range.
// ok is false for "all" and unknown ranges.
func Cutoff(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

func comparator(sortBy string) func(a, b domain.Offer) int {
	switch sortBy {
	case SortOldest:
		return func(a, b domain.Offer) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortAmountHigh:
		return func(a, b domain.Offer) int { return cmp.Compare(b.Amount, a.Amount) }
	case SortAmountLow:
		return func(a, b domain.Offer) int { return cmp.Compare(a.Amount, b.Amount) }
	case SortExpiringSoon:
		return func(a, b domain.Offer) int {
			ap, bp := a.Status == domain.OfferPending, b.Status == domain.OfferPending
			switch {
			case ap && bp:
				return a.ExpiresAt.Compare(b.ExpiresAt)
			case ap:
				return -1
			case bp:
				return 1
			}
			return 0
		}
	default:
		return func(a, b domain.Offer) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}
