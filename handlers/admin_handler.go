package handlers

import (
	"strings"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// UpdatePaymentStatus records a payment provider result reported by an admin.
func UpdatePaymentStatus(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var req UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	next, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.UpdatePaymentStatus(c.UserContext(), deps.DB, paymentID, next)
	if err != nil {
		return fail(c, err, "Failed to update payment")
	}
	committed(result.Notifications...)

	resp := fiber.Map{"payment": result.Payment}
	if result.Booking != nil {
		resp["booking"] = result.Booking
	}
	return c.JSON(resp)
}

// TriggerCleanup runs the stale booking cleanup immediately.
func TriggerCleanup(c *fiber.Ctx) error {
	result, err := services.CleanupStaleBookings(c.UserContext(), deps.DB, deps.Log, deps.Now())
	if err != nil {
		deps.Log.WithField("error", err.Error()).Error("🔥 Manual stale booking cleanup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to clean up stale bookings"})
	}
	if result.DeletedCount > 0 {
		committed()
	}
	return c.JSON(result)
}

func GetCommissionReport(c *fiber.Ctx) error {
	currency := strings.ToUpper(c.Query("currency", "USD"))
	if err := validate.Var(currency, "iso4217"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid currency"})
	}

	totals, err := services.CommissionTotals(c.UserContext(), deps.DB)
	if err != nil {
		return fail(c, err, "Failed to load commission totals")
	}
	if deps.Rates == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Exchange rates are not available"})
	}
	return c.JSON(services.BuildCommissionReport(c.UserContext(), totals, currency, deps.Rates))
}
