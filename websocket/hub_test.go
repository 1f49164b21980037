package websocket

import (
	"errors"
	"testing"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/stretchr/testify/assert"
)

type recordingMember struct {
	got  []chat.Message
	fail bool
}

func (m *recordingMember) Deliver(_ string, msg chat.Message) error {
	if m.fail {
		return errors.New("connection closed")
	}
	m.got = append(m.got, msg)
	return nil
}

func TestHubBroadcastReachesChannelMembersOnly(t *testing.T) {
	hub := NewHub(logger.NewTestLogger(t))
	a, b, other := &recordingMember{}, &recordingMember{}, &recordingMember{}
	hub.Join("chat:1:2:wedding", a)
	hub.Join("chat:1:2:wedding", b)
	hub.Join("chat:1:3:party", other)

	n := hub.Broadcast("chat:1:2:wedding", chat.Message{ID: "m1", Content: "hi"})

	assert.Equal(t, 2, n)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Empty(t, other.got)
}

func TestHubDropsFailingMembers(t *testing.T) {
	hub := NewHub(logger.NewTestLogger(t))
	ok, broken := &recordingMember{}, &recordingMember{fail: true}
	hub.Join("room", ok)
	hub.Join("room", broken)

	assert.Equal(t, 1, hub.Broadcast("room", chat.Message{ID: "m1"}))
	assert.Equal(t, 1, hub.Members("room"))
}

func TestHubLeaveRemovesEmptyRoom(t *testing.T) {
	hub := NewHub(logger.NewTestLogger(t))
	m := &recordingMember{}
	hub.Join("room", m)
	hub.Leave("room", m)
	hub.Leave("room", m)

	assert.Equal(t, 0, hub.Members("room"))
	assert.Zero(t, hub.Broadcast("room", chat.Message{ID: "m1"}))
}
