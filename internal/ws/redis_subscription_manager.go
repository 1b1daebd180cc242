package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ironbid/internal/services/offer"
)

// subscriptionManager keeps exactly one Redis subscription per
// "broker:<username>:events" channel, no matter how many dashboards the
// broker has open.
type subscriptionManager struct {
	rdb  *redis.Client
	hub  *Hub
	mu   sync.Mutex
	subs map[string]*subEntry // username -> subscription data
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *Hub) *subscriptionManager {
	return &subscriptionManager{
		rdb:  rdb,
		hub:  hub,
		subs: make(map[string]*subEntry),
	}
}

// Subscribe ensures the process listens on the broker's channel; further
// calls for the same broker only increment the ref-counter.
func (sm *subscriptionManager) Subscribe(broker string) {
	if sm.rdb == nil {
		return
	}
	sm.mu.Lock()
	if e, ok := sm.subs[broker]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdb.Subscribe(ctx, offer.EventsChannel(broker))

	sm.subs[broker] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go func() {
		defer func() { _ = ps.Close() }()

		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok { // Redis connection closed.
					return
				}

				wrapped, err := wrapRedisEvent(m.Payload)
				if err != nil {
					zap.L().Warn("ws.wrap_event_failed", zap.Error(err))
					wrapped = []byte(m.Payload) // forward as-is
				}
				sm.hub.Broadcast(broker, wrapped)
			}
		}
	}()
}

// Unsubscribe decrements the ref-counter and tears the Redis subscription
// down when the broker's last dashboard disconnects.
func (sm *subscriptionManager) Unsubscribe(broker string) {
	if sm.rdb == nil {
		return
	}
	sm.mu.Lock()
	e, ok := sm.subs[broker]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, broker)
	sm.mu.Unlock()

	e.cancel()
}

func (sm *subscriptionManager) refs(broker string) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if e, ok := sm.subs[broker]; ok {
		return e.refCnt
	}
	return 0
}

// wrapRedisEvent turns
//
//	{"version":1,"event":"changed","offerId":"o1",…}
//
// into
//
//	{"event":"offers/changed","body":{"version":1,"offerId":"o1",…}}
func wrapRedisEvent(payload string) ([]byte, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}

	evt, _ := raw["event"].(string)
	if evt == "" {
		evt = "unknown"
	}
	delete(raw, "event")

	return json.Marshal(outgoing{Event: "offers/" + evt, Body: raw})
}
