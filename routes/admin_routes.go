package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, secret string) {
	admin := app.Group("/api/v1/admin", middleware.Protected(secret), middleware.AdminRequired())

	admin.Patch("/payments/:paymentId/status", handlers.UpdatePaymentStatus)
	admin.Post("/jobs/cleanup", handlers.TriggerCleanup)
	admin.Get("/reports/commission", handlers.GetCommissionReport)
}
