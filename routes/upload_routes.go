package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, secret string) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected(secret))
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
