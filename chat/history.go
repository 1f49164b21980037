package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message is the broadcast payload of a chat message.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  uuid.UUID `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
	Seq       int64     `json:"seq,omitempty"`
}

// seenFactor sets how many more ids than messages a History remembers, so a
// message evicted from the window is still recognised when delivered again.
const seenFactor = 4

// History is the ordered message list of one channel, deduplicated by message id.
type History struct {
	channel  string
	limit    int
	ids      map[string]struct{}
	order    []string
	messages []Message
}

func NewHistory(limit int) *History {
	return &History{limit: limit, ids: make(map[string]struct{})}
}

func (h *History) Channel() string {
	return h.channel
}

// Reset switches to another channel and discards everything held for the previous one.
func (h *History) Reset(channel string) {
	h.channel = channel
	h.ids = make(map[string]struct{})
	h.order = nil
	h.messages = nil
}

// Add appends m unless a message with the same id is already present.
func (h *History) Add(m Message) bool {
	if _, seen := h.ids[m.ID]; seen {
		return false
	}
	h.ids[m.ID] = struct{}{}
	h.order = append(h.order, m.ID)
	h.messages = append(h.messages, m)

	if h.limit > 0 {
		if len(h.messages) > h.limit {
			h.messages = append([]Message(nil), h.messages[1:]...)
		}
		if len(h.order) > h.limit*seenFactor {
			delete(h.ids, h.order[0])
			h.order = append([]string(nil), h.order[1:]...)
		}
	}
	return true
}

// Has reports whether id was added since the last Reset and is still remembered.
func (h *History) Has(id string) bool {
	_, ok := h.ids[id]
	return ok
}

func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	return len(h.messages)
}
