package handlers

import (
	"strconv"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/anjiri1684/talent_booking/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// ServeWs runs the chat and change-stream protocol on an upgraded connection.
func ServeWs(c *websocketcontrib.Conn) {
	websocket.Serve(websocket.Config{
		DB:      deps.DB,
		Log:     deps.Log,
		Chat:    deps.ChatHub,
		Changes: deps.ChangeHub,
		Authenticate: func(token string) (services.Caller, error) {
			return middleware.ParseToken(deps.Config.Auth.JWTSecret, token)
		},
		InboxSize:    deps.Config.Realtime.InboxSize,
		HistoryLimit: deps.Config.Realtime.ChatHistory,
		Now:          deps.Now,
	}, c)
}

// GetChannelMessages replays a channel's durable log after since_seq.
func GetChannelMessages(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	ch, err := chat.ParseChannelKey(c.Params("channel"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !ch.IsParticipant(who.ID) && !who.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a participant of this channel"})
	}

	sinceSeq, _ := strconv.ParseInt(c.Query("since_seq", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	msgs, err := services.ListChatMessages(c.UserContext(), deps.DB, ch.Key, sinceSeq, limit)
	if err != nil {
		return fail(c, err, "Failed to fetch messages")
	}
	return c.JSON(fiber.Map{"channel": ch.Key, "messages": msgs})
}
