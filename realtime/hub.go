package realtime

import (
	"context"
	"sync"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
)

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/anjiri1684/talent_booking/realtime Publisher

// Publisher receives committed change events in seq order.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

// Hub fans committed change events out to the local inboxes.
type Hub struct {
	mu      sync.RWMutex
	inboxes map[*Inbox]struct{}
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		inboxes: make(map[*Inbox]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(i *Inbox) {
	h.mu.Lock()
	h.inboxes[i] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(i *Inbox) {
	h.mu.Lock()
	delete(h.inboxes, i)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.inboxes)
}

// Publish decodes the event once and queues it on every interested inbox.
// Malformed events are logged and skipped so one bad row cannot stall the stream.
func (h *Hub) Publish(ctx context.Context, ev models.ChangeEvent) error {
	c, err := workflow.DecodeChange(ev)
	if err != nil {
		h.log.WithFields(map[string]interface{}{
			"seq":   ev.Seq,
			"table": ev.Table,
			"error": err.Error(),
		}).Warn("Skipping malformed change event")
		return nil
	}
	h.PublishChange(c)
	return nil
}

func (h *Hub) PublishChange(c workflow.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for inbox := range h.inboxes {
		if !inbox.Wants(c.Table) {
			continue
		}
		if !inbox.Offer(c) {
			h.log.WithFields(map[string]interface{}{
				"viewer_id": inbox.ViewerID.String(),
				"table":     c.Table,
				"seq":       c.Seq,
			}).Warn("Inbox full, dropped oldest event")
		}
	}
}
