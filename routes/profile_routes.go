package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, secret string) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected(secret))
	profile.Get("/me", handlers.GetMyProfile)
	profile.Put("/me", handlers.UpdateMyProfile)

	subscriptions := api.Group("/subscriptions", middleware.Protected(secret))
	subscriptions.Post("/activate", handlers.ActivateSubscription)
}
