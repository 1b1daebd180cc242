package listing

import (
	"net/url"
	"strconv"

	"ironbid/internal/filter"
)

// forwarded are the filter keys the remote search understands as-is.
var forwarded = []filter.Key{
	filter.Status, filter.Search, filter.PriceMin, filter.PriceMax, filter.Location,
	filter.SortBy, filter.SortOrder, filter.AuctionType, filter.AllowOffers,
}

// QueryFromState serializes the complete filter state into remote search
// parameters. The category hierarchy is sent as an ordered categories[] list.
func QueryFromState(st *filter.State, page, limit int) url.Values {
	q := url.Values{}
	for _, slug := range st.Categories() {
		q.Add("categories[]", slug)
	}
	for _, k := range forwarded {
		if v := st.Get(k); v != "" {
			q.Set(string(k), v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
