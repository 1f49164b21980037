package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/webhooks/changes", handlers.ReceiveChangeWebhook)
}

// Setup registers every route group.
func Setup(app *fiber.App, secret string) {
	PublicRoutes(app)
	ProfileRoutes(app, secret)
	BookingRoutes(app, secret)
	GigRoutes(app, secret)
	NotificationRoutes(app, secret)
	AdminRoutes(app, secret)
	UploadRoutes(app, secret)
	MessagingRoutes(app, secret)
}
