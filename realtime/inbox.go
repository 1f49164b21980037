package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
)

const DefaultInboxSize = 64

type command struct {
	in  Input
	ack chan struct{}
}

// Inbox is one subscriber's bounded event queue. A single goroutine (Run)
// drains it through Reduce and hands the resulting effects to emit.
type Inbox struct {
	ViewerID uuid.UUID
	IsAdmin  bool

	events   chan workflow.Change
	commands chan command
	lagging  atomic.Bool
	dropped  atomic.Int64
	emit     func(Effect)

	mu     sync.RWMutex
	tables map[string]bool
}

func NewInbox(viewerID uuid.UUID, size int, emit func(Effect)) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{
		ViewerID: viewerID,
		events:   make(chan workflow.Change, size),
		commands: make(chan command, 16),
		emit:     emit,
		tables:   map[string]bool{},
	}
}

// Wants is a cheap pre-filter used by the hub before queueing.
func (i *Inbox) Wants(table string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tables[table]
}

// Offer queues a change without blocking. When the queue is full the oldest
// undelivered change is dropped and the inbox is marked lagging.
func (i *Inbox) Offer(c workflow.Change) bool {
	select {
	case i.events <- c:
		return true
	default:
	}

	select {
	case <-i.events:
		i.dropped.Add(1)
	default:
	}
	i.lagging.Store(true)

	select {
	case i.events <- c:
	default:
		i.dropped.Add(1)
	}
	return false
}

func (i *Inbox) Dropped() int64 {
	return i.dropped.Load()
}

// Send hands a command to the inbox goroutine and waits until it has been reduced.
func (i *Inbox) Send(ctx context.Context, in Input) error {
	cmd := command{in: in, ack: make(chan struct{})}
	select {
	case i.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Inbox) Run(ctx context.Context) {
	state := NewInboxState(i.ViewerID)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-i.commands:
			state = i.reduce(state, cmd.in)
			i.syncTables(state)
			close(cmd.ack)
		case c := <-i.events:
			state = i.handle(state, c)
		}
	}
}

func (i *Inbox) handle(state InboxState, c workflow.Change) InboxState {
	if i.lagging.CompareAndSwap(true, false) {
		state = i.reduce(state, LaggingInput{})
	}
	return i.reduce(state, ChangeInput{Change: c})
}

func (i *Inbox) reduce(state InboxState, in Input) InboxState {
	next, effects := Reduce(state, in)
	if i.emit != nil {
		for _, eff := range effects {
			i.emit(eff)
		}
	}
	return next
}

func (i *Inbox) syncTables(state InboxState) {
	tables := make(map[string]bool, len(state.Subs))
	for _, t := range state.Tables() {
		tables[t] = true
	}
	i.mu.Lock()
	i.tables = tables
	i.mu.Unlock()
}
