// Package filter holds the listing filter state shared by the auction browser
// and the broker dashboard, and keeps it mirrored in the URL query string.
package filter

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

type Key string

const (
	Search      Key = "search"
	Category    Key = "category"
	Subcategory Key = "subcategory"
	Status      Key = "status"
	PriceMin    Key = "priceMin"
	PriceMax    Key = "priceMax"
	Location    Key = "location"
	AuctionType Key = "auctionType"
	AllowOffers Key = "allowOffers"
	SortBy      Key = "sortBy"
	SortOrder   Key = "sortOrder"
	DateRange   Key = "dateRange"
	Auction     Key = "auction"
)

// All is the "no constraint" value of select-style filters.
const All = "all"

var recognized = []Key{
	Search, Category, Subcategory, Status, PriceMin, PriceMax, Location,
	AuctionType, AllowOffers, SortBy, SortOrder, DateRange, Auction,
}

func (k Key) Recognized() bool { return slices.Contains(recognized, k) }

// BrowserDefaults are the declared defaults of the public auction browser.
func BrowserDefaults() map[Key]string {
	return map[Key]string{Status: "active"}
}

// DashboardDefaults are the declared defaults of the broker offer dashboard.
func DashboardDefaults() map[Key]string {
	return map[Key]string{
		Status:    All,
		Auction:   All,
		DateRange: All,
		SortBy:    "recent",
	}
}

// State is an ordered set of explicit filter values with fallbacks.
// Only explicit values are written to the URL.
type State struct {
	keys     []Key
	values   map[Key]string
	defaults map[Key]string
}

func NewState(defaults map[Key]string) *State {
	return &State{values: map[Key]string{}, defaults: defaults}
}

// ParseQuery reads a query string (with or without the leading "?")
// keeping parameter order. Empty values are skipped.
func ParseQuery(raw string, defaults map[Key]string) (*State, error) {
	st := NewState(defaults)
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return st, nil
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("filter: bad key %q: %w", k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("filter: bad value for %q: %w", key, err)
		}
		st.set(Key(key), val)
	}
	return st, nil
}

// Get returns the explicit value of k, or its default.
func (s *State) Get(k Key) string {
	if v, ok := s.values[k]; ok {
		return v
	}
	return s.defaults[k]
}

// Explicit returns the value of k only if it was set explicitly.
func (s *State) Explicit(k Key) (string, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Keys lists explicitly set keys in insertion order.
func (s *State) Keys() []Key { return slices.Clone(s.keys) }

// Categories builds the category path: [], [parent] or [parent, sub].
// A subcategory without a parent is ignored.
func (s *State) Categories() []string {
	parent := s.Get(Category)
	if parent == "" {
		return []string{}
	}
	if sub := s.Get(Subcategory); sub != "" {
		return []string{parent, sub}
	}
	return []string{parent}
}

// Encode serializes the explicit values in insertion order.
func (s *State) Encode() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, url.QueryEscape(string(k))+"="+url.QueryEscape(s.values[k]))
	}
	return strings.Join(parts, "&")
}

func (s *State) Clone() *State {
	c := &State{
		keys:     slices.Clone(s.keys),
		values:   make(map[Key]string, len(s.values)),
		defaults: s.defaults,
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// Without returns a copy of s with k removed.
func (s *State) Without(k Key) *State {
	c := s.Clone()
	c.del(k)
	return c
}

// set stores v under k, deleting k when v is empty or "false".
// It reports whether the state changed.
func (s *State) set(k Key, v string) bool {
	if v == "" || v == "false" {
		return s.del(k)
	}
	if old, ok := s.values[k]; ok {
		s.values[k] = v
		return old != v
	}
	s.keys = append(s.keys, k)
	s.values[k] = v
	return true
}

func (s *State) del(k Key) bool {
	if _, ok := s.values[k]; !ok {
		return false
	}
	delete(s.values, k)
	s.keys = slices.DeleteFunc(s.keys, func(x Key) bool { return x == k })
	return true
}
