package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App, secret string) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected(secret))
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", middleware.RoleRequired(models.RoleBooker, models.RoleAdmin), handlers.CreateBooking)
	booking.Post("/decline", handlers.DeclineBooking)
	booking.Patch("/:bookingId/status", handlers.UpdateBookingStatus)
	booking.Get("/:bookingId/invoice", handlers.GetBookingInvoice)

	invoices := api.Group("/invoices", middleware.Protected(secret), middleware.RoleRequired(models.RoleTalent, models.RoleAdmin))
	invoices.Post("", handlers.CreateInvoice)
}
