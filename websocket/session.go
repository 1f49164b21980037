package websocket

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/realtime"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/anjiri1684/talent_booking/utils"
	"gorm.io/gorm"
)

const maxMessageLength = 4000

// Conn is the part of a websocket connection a session uses.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

type Config struct {
	DB           *gorm.DB
	Log          logger.Logger
	Chat         *Hub
	Changes      *realtime.Hub
	Authenticate func(token string) (services.Caller, error)
	InboxSize    int
	HistoryLimit int
	Now          func() time.Time
}

// Frame is every client to server message; Type selects which fields apply.
type Frame struct {
	Type          string   `json:"type"`
	Token         string   `json:"token,omitempty"`
	Channel       string   `json:"channel,omitempty"`
	SinceSeq      *int64   `json:"since_seq,omitempty"`
	ID            string   `json:"id,omitempty"`
	Content       string   `json:"content,omitempty"`
	Table         string   `json:"table,omitempty"`
	Events        []string `json:"events,omitempty"`
	Filter        string   `json:"filter,omitempty"`
	Counter       string   `json:"counter,omitempty"`
	CountStatuses []string `json:"count_statuses,omitempty"`
	WindowHours   int      `json:"window_hours,omitempty"`
}

type outFrame struct {
	Type     string         `json:"type"`
	Event    string         `json:"event,omitempty"`
	Channel  string         `json:"channel,omitempty"`
	Table    string         `json:"table,omitempty"`
	Count    *int           `json:"count,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Error    string         `json:"error,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	Payload  interface{}    `json:"payload,omitempty"`
	Messages []chat.Message `json:"messages,omitempty"`
}

type session struct {
	cfg    Config
	conn   Conn
	caller services.Caller
	inbox  *realtime.Inbox

	writeMu sync.Mutex

	mu      sync.Mutex
	channel string
	history *chat.History
	// While joining, live messages are held in pending until the backlog is sent.
	joining bool
	pending []chat.Message
}

// Serve runs one websocket connection until the client goes away.
// The first frame must be {type:"auth", token}.
func Serve(cfg Config, conn Conn) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	defer conn.Close()

	var auth Frame
	if err := conn.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		_ = conn.WriteJSON(outFrame{Type: "error", Error: "Invalid or missing auth message"})
		return
	}
	caller, err := cfg.Authenticate(auth.Token)
	if err != nil {
		cfg.Log.WithField("error", err.Error()).Warn("WebSocket auth failed")
		_ = conn.WriteJSON(outFrame{Type: "error", Error: "Invalid token"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &session{cfg: cfg, conn: conn, caller: caller, history: chat.NewHistory(cfg.HistoryLimit)}
	s.inbox = realtime.NewInbox(caller.ID, cfg.InboxSize, s.emit)
	s.inbox.IsAdmin = caller.IsAdmin()
	go s.inbox.Run(ctx)
	cfg.Changes.Register(s.inbox)
	defer cfg.Changes.Unregister(s.inbox)
	defer s.leave()

	log := cfg.Log.WithField("user_id", caller.ID.String())
	log.Info("WebSocket client authenticated")
	if err := s.write(outFrame{Type: "auth_ok", UserID: caller.ID.String()}); err != nil {
		return
	}

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			log.WithField("error", err.Error()).Debug("WebSocket closed")
			return
		}
		if err := s.dispatch(ctx, f); err != nil {
			_ = s.write(outFrame{Type: "error", Event: f.Type, Error: err.Error()})
		}
	}
}

func (s *session) dispatch(ctx context.Context, f Frame) error {
	switch f.Type {
	case "join":
		return s.join(ctx, f)
	case "leave":
		s.leave()
		return s.write(outFrame{Type: "left"})
	case "message":
		return s.message(ctx, f)
	case "subscribe":
		return s.subscribe(ctx, f)
	case "unsubscribe":
		if err := s.inbox.Send(ctx, realtime.UnsubscribeInput{Table: f.Table}); err != nil {
			return err
		}
		return s.write(outFrame{Type: "unsubscribed", Table: f.Table})
	case "mark_read":
		table := f.Table
		if table == "" {
			table = f.Counter
		}
		return s.inbox.Send(ctx, realtime.MarkReadInput{Table: table})
	case "ping":
		return s.write(outFrame{Type: "pong"})
	}
	return errors.New("unknown frame type")
}

func (s *session) join(ctx context.Context, f Frame) error {
	ch, err := chat.ParseChannelKey(f.Channel)
	if err != nil {
		return err
	}
	if !ch.IsParticipant(s.caller.ID) && !s.caller.IsAdmin() {
		return errors.New("not a participant of this channel")
	}

	s.leave()

	// Join the room before reading the backlog so nothing saved in between is missed.
	s.mu.Lock()
	s.channel = ch.Key
	s.history.Reset(ch.Key)
	s.joining = true
	s.pending = nil
	s.mu.Unlock()
	s.cfg.Chat.Join(ch.Key, s)

	var since int64
	if f.SinceSeq != nil {
		since = *f.SinceSeq
	}
	backlog, err := services.ListChatMessages(ctx, s.cfg.DB, ch.Key, since, s.cfg.HistoryLimit)
	if err != nil {
		s.leave()
		s.cfg.Log.WithField("error", err.Error()).Error("Failed to load chat history")
		return errors.New("failed to load chat history")
	}

	s.mu.Lock()
	history := make([]chat.Message, 0, len(backlog))
	for _, m := range backlog {
		if s.history.Add(m) {
			history = append(history, m)
		}
	}
	s.mu.Unlock()

	if err := s.write(outFrame{Type: "joined", Channel: ch.Key}); err != nil {
		return err
	}
	if err := s.write(outFrame{Type: "history", Channel: ch.Key, Messages: history}); err != nil {
		return err
	}
	return s.flushPending(ch.Key)
}

// flushPending sends messages that arrived while joining, then switches to direct delivery.
func (s *session) flushPending(channel string) error {
	for {
		s.mu.Lock()
		live := s.pending
		s.pending = nil
		if len(live) == 0 || s.channel != channel {
			s.joining = false
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()

		for _, m := range live {
			if err := s.write(outFrame{Type: "broadcast", Event: "message", Channel: channel, Payload: m}); err != nil {
				return err
			}
		}
	}
}

func (s *session) leave() {
	s.mu.Lock()
	channel := s.channel
	s.channel = ""
	s.history.Reset("")
	s.joining = false
	s.pending = nil
	s.mu.Unlock()
	if channel != "" {
		s.cfg.Chat.Leave(channel, s)
	}
}

func (s *session) message(ctx context.Context, f Frame) error {
	s.mu.Lock()
	channel := s.channel
	s.mu.Unlock()
	if channel == "" {
		return errors.New("join a channel first")
	}

	content := strings.TrimSpace(f.Content)
	if content == "" {
		return errors.New("message content is required")
	}
	if len(content) > maxMessageLength {
		return errors.New("message is too long")
	}

	now := s.cfg.Now().UTC()
	id := f.ID
	if id == "" {
		id = utils.GenerateMessageID(now)
	}
	msg := chat.Message{ID: id, Content: chat.Redact(content), SenderID: s.caller.ID, CreatedAt: now}

	saved, stored, err := services.SaveChatMessage(ctx, s.cfg.DB, channel, msg)
	if err != nil {
		s.cfg.Log.WithField("error", err.Error()).Error("Failed to save chat message")
		return errors.New("failed to save message")
	}
	if !stored {
		return nil
	}
	s.cfg.Chat.Broadcast(channel, saved)
	return nil
}

// Deliver is called by the hub for every message broadcast in the joined channel.
func (s *session) Deliver(channel string, msg chat.Message) error {
	s.mu.Lock()
	if s.channel != channel || !s.history.Add(msg) {
		s.mu.Unlock()
		return nil
	}
	if s.joining {
		s.pending = append(s.pending, msg)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.write(outFrame{Type: "broadcast", Event: "message", Channel: channel, Payload: msg})
}

func (s *session) subscribe(ctx context.Context, f Frame) error {
	filter, err := realtime.ParseFilter(f.Filter)
	if err != nil {
		return err
	}
	sub := realtime.Subscription{
		Table:         f.Table,
		Events:        f.Events,
		Filter:        filter,
		Counter:       realtime.CounterKind(f.Counter),
		CountStatuses: f.CountStatuses,
		WindowHours:   f.WindowHours,
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	if err := sub.Authorize(s.caller.ID, s.caller.IsAdmin()); err != nil {
		return err
	}

	seed, err := realtime.SeedCount(ctx, s.cfg.DB, s.caller.ID, sub, s.cfg.Now())
	if err != nil {
		s.cfg.Log.WithField("error", err.Error()).Error("Failed to seed counter")
		return errors.New("failed to load counter")
	}

	in := realtime.SubscribeInput{Sub: sub, Seed: seed.Count, SeedSeq: seed.Seq}
	if f.SinceSeq != nil {
		in.AwaitReplay = true
		in.SinceSeq = *f.SinceSeq
	}
	if err := s.inbox.Send(ctx, in); err != nil {
		return err
	}

	if in.AwaitReplay {
		changes, err := realtime.LoadSince(ctx, s.cfg.DB, s.cfg.Log, sub.Table, in.SinceSeq)
		if err != nil {
			s.cfg.Log.WithField("error", err.Error()).Error("Failed to replay changes")
			changes = nil
			_ = s.write(outFrame{Type: "resync", Table: sub.Table, Reason: "replay failed"})
		}
		if err := s.inbox.Send(ctx, realtime.ReplayInput{Table: sub.Table, Changes: changes}); err != nil {
			return err
		}
	}
	return s.write(outFrame{Type: "subscribed", Table: sub.Table})
}

func (s *session) emit(eff realtime.Effect) {
	var f outFrame
	switch e := eff.(type) {
	case realtime.NoticeEffect:
		f = outFrame{Type: "notice", Table: e.Notice.Table, Payload: e.Notice}
	case realtime.CounterEffect:
		count := e.Count
		f = outFrame{Type: "counter", Table: e.Table, Count: &count}
	case realtime.ResyncEffect:
		f = outFrame{Type: "resync", Table: e.Table, Reason: e.Reason}
	default:
		return
	}
	_ = s.write(f)
}

func (s *session) write(f outFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(f)
}
