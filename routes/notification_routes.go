package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App, secret string) {
	notifications := app.Group("/api/v1/notifications", middleware.Protected(secret))
	notifications.Get("", handlers.GetNotifications)
	notifications.Get("/unread-count", handlers.GetUnreadCount)
	notifications.Post("/read-all", handlers.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", handlers.MarkNotificationRead)
}
