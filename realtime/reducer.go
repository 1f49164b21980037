package realtime

import (
	"sort"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
)

// maxBuffered bounds live events held back while a subscription waits for its replay.
const maxBuffered = 256

// seenWindow bounds how many delivered seqs a subscription remembers above its floor.
const seenWindow = 512

// Input is anything an inbox reduces: change events and subscriber commands.
type Input interface {
	input()
}

type ChangeInput struct {
	Change workflow.Change
}

type SubscribeInput struct {
	Sub  Subscription
	Seed int
	// SeedSeq is the change-log head the seed was read at; changes at or
	// below it are already counted.
	SeedSeq int64
	// AwaitReplay holds live events for the table until a ReplayInput arrives.
	AwaitReplay bool
	SinceSeq    int64
}

type ReplayInput struct {
	Table   string
	Changes []workflow.Change
}

type UnsubscribeInput struct {
	Table string
}

type MarkReadInput struct {
	Table string
}

// LaggingInput tells the reducer that events were dropped from the inbox queue.
type LaggingInput struct{}

func (ChangeInput) input()      {}
func (SubscribeInput) input()   {}
func (ReplayInput) input()      {}
func (UnsubscribeInput) input() {}
func (MarkReadInput) input()    {}
func (LaggingInput) input()     {}

type Effect interface {
	effect()
}

type NoticeEffect struct {
	Notice workflow.Notice
}

type CounterEffect struct {
	Table string
	Count int
}

type ResyncEffect struct {
	Table  string
	Reason string
}

func (NoticeEffect) effect()  {}
func (CounterEffect) effect() {}
func (ResyncEffect) effect()  {}

type SubState struct {
	Sub   Subscription
	Count int
	// Changes at or below Floor count as delivered. Seen holds delivered
	// seqs above it, ascending, so a late lower seq is still applied once.
	Floor   int64
	Seen    []int64
	LastSeq int64
	// CountedThrough is the seq the counter seed already reflects.
	CountedThrough int64
	Awaiting       bool
	Buffered       []workflow.Change
}

// markSeen records seq and reports whether it was new.
func (s *SubState) markSeen(seq int64) bool {
	if seq <= s.Floor {
		return false
	}
	i := sort.Search(len(s.Seen), func(i int) bool { return s.Seen[i] >= seq })
	if i < len(s.Seen) && s.Seen[i] == seq {
		return false
	}
	s.Seen = append(s.Seen, 0)
	copy(s.Seen[i+1:], s.Seen[i:])
	s.Seen[i] = seq
	if len(s.Seen) > seenWindow {
		s.Floor = s.Seen[0]
		s.Seen = s.Seen[1:]
	}
	if seq > s.LastSeq {
		s.LastSeq = seq
	}
	return true
}

// InboxState is owned by a single inbox goroutine.
type InboxState struct {
	ViewerID uuid.UUID
	Subs     map[string]SubState
}

func NewInboxState(viewerID uuid.UUID) InboxState {
	return InboxState{ViewerID: viewerID, Subs: map[string]SubState{}}
}

func (s InboxState) clone() InboxState {
	subs := make(map[string]SubState, len(s.Subs))
	for k, v := range s.Subs {
		v.Buffered = append([]workflow.Change(nil), v.Buffered...)
		v.Seen = append([]int64(nil), v.Seen...)
		subs[k] = v
	}
	return InboxState{ViewerID: s.ViewerID, Subs: subs}
}

// Tables lists the tables with an active subscription.
func (s InboxState) Tables() []string {
	tables := make([]string, 0, len(s.Subs))
	for t := range s.Subs {
		tables = append(tables, t)
	}
	return tables
}

// Reduce applies one input to the inbox state. It does no I/O; the caller
// performs the returned effects in order.
func Reduce(state InboxState, in Input) (InboxState, []Effect) {
	next := state.clone()

	switch in := in.(type) {
	case SubscribeInput:
		sub := SubState{Sub: in.Sub, Awaiting: in.AwaitReplay, Floor: in.SinceSeq, LastSeq: in.SinceSeq}
		if in.Sub.Counter == CounterSnapshot {
			sub.Count = clamp(in.Seed)
			sub.CountedThrough = in.SeedSeq
		}
		next.Subs[in.Sub.Table] = sub
		if in.Sub.Counter != CounterNone {
			return next, []Effect{CounterEffect{Table: in.Sub.Table, Count: sub.Count}}
		}
		return next, nil

	case UnsubscribeInput:
		delete(next.Subs, in.Table)
		return next, nil

	case MarkReadInput:
		sub, ok := next.Subs[in.Table]
		if !ok || sub.Sub.Counter == CounterNone {
			return next, nil
		}
		sub.Count = 0
		next.Subs[in.Table] = sub
		return next, []Effect{CounterEffect{Table: in.Table, Count: 0}}

	case LaggingInput:
		var effects []Effect
		for table := range next.Subs {
			effects = append(effects, ResyncEffect{Table: table, Reason: "inbox overflow"})
		}
		return next, effects

	case ReplayInput:
		sub, ok := next.Subs[in.Table]
		if !ok {
			return next, nil
		}
		var effects []Effect
		for _, c := range in.Changes {
			var eff []Effect
			sub, eff = apply(next.ViewerID, sub, c)
			effects = append(effects, eff...)
		}
		for _, c := range sub.Buffered {
			var eff []Effect
			sub, eff = apply(next.ViewerID, sub, c)
			effects = append(effects, eff...)
		}
		sub.Buffered = nil
		sub.Awaiting = false
		next.Subs[in.Table] = sub
		return next, effects

	case ChangeInput:
		sub, ok := next.Subs[in.Change.Table]
		if !ok || !sub.Sub.Wants(in.Change) {
			return next, nil
		}
		if sub.Awaiting {
			var effects []Effect
			if len(sub.Buffered) >= maxBuffered {
				sub.Buffered = sub.Buffered[1:]
				effects = append(effects, ResyncEffect{Table: in.Change.Table, Reason: "replay buffer overflow"})
			}
			sub.Buffered = append(sub.Buffered, in.Change)
			next.Subs[in.Change.Table] = sub
			return next, effects
		}
		sub, effects := apply(next.ViewerID, sub, in.Change)
		next.Subs[in.Change.Table] = sub
		return next, effects
	}

	return next, nil
}

func apply(viewerID uuid.UUID, sub SubState, c workflow.Change) (SubState, []Effect) {
	if c.Seq != 0 && !sub.markSeen(c.Seq) {
		return sub, nil
	}
	if !sub.Sub.Wants(c) {
		return sub, nil
	}

	var effects []Effect
	counted := c.Seq != 0 && c.Seq <= sub.CountedThrough
	if delta := counterDelta(sub.Sub, c); delta != 0 && !counted {
		count := clamp(sub.Count + delta)
		if count != sub.Count {
			sub.Count = count
			effects = append(effects, CounterEffect{Table: sub.Sub.Table, Count: count})
		}
	}
	for _, n := range workflow.Classify(c, viewerID) {
		effects = append(effects, NoticeEffect{Notice: n})
	}
	return sub, effects
}

func counterDelta(sub Subscription, c workflow.Change) int {
	next, prev := c.Status()

	switch sub.Counter {
	case CounterLive:
		switch c.Type {
		case models.ChangeInsert:
			return 1
		case models.ChangeUpdate:
			if prev != "" && models.IsPendingLike(prev) && !models.IsPendingLike(next) {
				return -1
			}
		}
		return 0

	case CounterSnapshot:
		if len(sub.CountStatuses) == 0 {
			switch c.Type {
			case models.ChangeInsert:
				return 1
			case models.ChangeUpdate:
				if c.OldRecord != nil && c.OldRecord["read_at"] == nil && c.Record["read_at"] != nil {
					return -1
				}
			}
			return 0
		}
		in := contains(sub.CountStatuses, next)
		switch c.Type {
		case models.ChangeInsert:
			if in {
				return 1
			}
		case models.ChangeUpdate:
			was := prev != "" && contains(sub.CountStatuses, prev)
			if in && !was {
				return 1
			}
			if was && !in {
				return -1
			}
		}
	}
	return 0
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
