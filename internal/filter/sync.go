package filter

import (
	"errors"
	"sync"
)

var ErrSubcategoryWithoutParent = errors.New("subcategory requires a selected category")

// URLReplacer rewrites the current URL query without navigating.
type URLReplacer interface {
	ReplaceURL(query string)
}

type URLReplacerFunc func(query string)

func (f URLReplacerFunc) ReplaceURL(query string) { f(query) }

// Synchronizer keeps a State, the URL mirror and the consumer of filter
// changes consistent. Free-text keys reach the consumer through the
// debouncer, every other key immediately.
type Synchronizer struct {
	mu        sync.Mutex
	state     *State
	defaults  map[Key]string
	url       URLReplacer
	debounce  *Debouncer
	propagate func(*State)
	textKeys  map[Key]bool
}

func NewSynchronizer(defaults map[Key]string, url URLReplacer, debounce *Debouncer, propagate func(*State)) *Synchronizer {
	return &Synchronizer{
		state:     NewState(defaults),
		defaults:  defaults,
		url:       url,
		debounce:  debounce,
		propagate: propagate,
		textKeys:  map[Key]bool{Search: true, Location: true},
	}
}

// State returns a copy of the current filter state.
func (s *Synchronizer) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Set updates one filter. Unchanged values are ignored.
func (s *Synchronizer) Set(key Key, value string) error {
	s.mu.Lock()
	changed := false
	switch key {
	case Category:
		changed = s.state.set(Category, value)
		if changed {
			s.state.del(Subcategory)
		}
	case Subcategory:
		if value != "" && s.state.Get(Category) == "" {
			s.mu.Unlock()
			return ErrSubcategoryWithoutParent
		}
		changed = s.state.set(Subcategory, value)
	default:
		changed = s.state.set(key, value)
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	query := s.state.Encode()
	snap := s.state.Clone()
	s.mu.Unlock()

	s.url.ReplaceURL(query)
	if s.textKeys[key] {
		s.debounce.Trigger(func() { s.propagate(s.State()) })
		return nil
	}
	// the snapshot already carries any pending text input
	s.debounce.Cancel()
	s.propagate(snap)
	return nil
}

// LoadFromURL replaces the state with the parsed query and propagates it.
// An orphan subcategory is dropped and the URL rewritten without it.
func (s *Synchronizer) LoadFromURL(raw string) (*State, error) {
	st, err := ParseQuery(raw, s.defaults)
	if err != nil {
		return nil, err
	}
	rewrite := false
	if _, ok := st.Explicit(Category); !ok && st.del(Subcategory) {
		rewrite = true
	}

	s.mu.Lock()
	s.state = st
	snap := st.Clone()
	query := st.Encode()
	s.mu.Unlock()

	if rewrite {
		s.url.ReplaceURL(query)
	}
	s.debounce.Cancel()
	s.propagate(snap)
	return snap, nil
}

// Reset restores the declared defaults and clears the URL query.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.state = NewState(s.defaults)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.debounce.Cancel()
	s.url.ReplaceURL("")
	s.propagate(snap)
}

// Close drops any pending debounced propagation.
func (s *Synchronizer) Close() {
	s.debounce.Cancel()
}
