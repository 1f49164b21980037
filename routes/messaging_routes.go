package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// MessagingRoutes serves chat replay over REST and the websocket endpoint.
// The websocket authenticates with its first frame, not a header.
func MessagingRoutes(app *fiber.App, secret string) {
	api := app.Group("/api/v1")

	chat := api.Group("/chat", middleware.Protected(secret))
	chat.Get("/:channel/messages", handlers.GetChannelMessages)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
