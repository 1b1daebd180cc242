package ws

import (
	"sync"
)

// Hub keeps client sets per broker username.
type Hub struct {
	rooms sync.Map // username -> *room
}

func NewHub() *Hub { return &Hub{} }

// Broadcast is called by the Redis subscriber.
func (h *Hub) Broadcast(broker string, msg []byte) {
	if v, ok := h.rooms.Load(broker); ok {
		v.(*room).broadcast(msg)
	}
}

func (h *Hub) Join(broker string, c *clientConn) {
	r, _ := h.rooms.LoadOrStore(broker, newRoom())
	r.(*room).add(c)
}

func (h *Hub) Leave(broker string, c *clientConn) {
	if v, ok := h.rooms.Load(broker); ok {
		v.(*room).remove(c)
	}
}
