package ws

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
)

var (
	ErrUnknownEvent = errors.New("unknown_event")
	ErrWrongView    = errors.New("event not available in this view")
)

// internal (untyped) handler signature.
type rawHandler func(ctx context.Context, c *ConnContext, body json.RawMessage) (any, error)

type route struct {
	views   []string // empty: every view
	handler rawHandler
}

// Router keeps a map[event]handler, à la gin.Engine.
type Router struct {
	mu     sync.RWMutex
	routes map[string]route
}

func NewRouter() *Router { return &Router{routes: make(map[string]route)} }

// Register binds an event to a strongly-typed handler. When views are given
// the event is refused on connections of any other view.
func Register[Req any, Res any](
	r *Router,
	event string,
	h func(ctx context.Context, c *ConnContext, req Req) (Res, error),
	views ...string,
) {
	if event == "" {
		panic("ws router: empty event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[event] = route{
		views: views,
		handler: func(ctx context.Context, c *ConnContext, body json.RawMessage) (any, error) {
			var req Req
			if len(body) > 0 {
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, err
				}
			}
			return h(ctx, c, req)
		},
	}
}

// dispatch is called by the server's reader loop.
func (r *Router) dispatch(ctx context.Context, c *ConnContext, env Envelope) (any, error) {
	r.mu.RLock()
	rt, ok := r.routes[env.Event]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownEvent
	}
	if len(rt.views) > 0 && !slices.Contains(rt.views, c.View) {
		return nil, ErrWrongView
	}
	return rt.handler(ctx, c, env.Body)
}
