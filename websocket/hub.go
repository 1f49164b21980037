package websocket

import (
	"sync"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/logger"
)

// Member is one connection joined to a chat channel.
type Member interface {
	Deliver(channel string, msg chat.Message) error
}

// Hub tracks which connections sit in which chat channel on this instance.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Member]struct{}
	log   logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{rooms: make(map[string]map[Member]struct{}), log: log}
}

func (h *Hub) Join(channel string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[channel]
	if !ok {
		room = make(map[Member]struct{})
		h.rooms[channel] = room
	}
	room[m] = struct{}{}
}

func (h *Hub) Leave(channel string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[channel]
	if !ok {
		return
	}
	delete(room, m)
	if len(room) == 0 {
		delete(h.rooms, channel)
	}
}

func (h *Hub) Members(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[channel])
}

// Broadcast delivers msg to every member of the channel, the sender included.
// Members whose delivery fails are dropped from the channel.
func (h *Hub) Broadcast(channel string, msg chat.Message) int {
	h.mu.RLock()
	members := make([]Member, 0, len(h.rooms[channel]))
	for m := range h.rooms[channel] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, m := range members {
		if err := m.Deliver(channel, msg); err != nil {
			h.log.WithFields(map[string]interface{}{
				"channel": channel,
				"error":   err.Error(),
			}).Warn("Error sending chat message, removing member")
			h.Leave(channel, m)
			continue
		}
		delivered++
	}
	return delivered
}
