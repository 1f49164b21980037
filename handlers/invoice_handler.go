package handlers

import (
	"strings"

	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateInvoiceRequest struct {
	BookingID              string   `json:"bookingId" validate:"required,uuid"`
	AgreedPrice            float64  `json:"agreedPrice" validate:"gt=0"`
	Currency               string   `json:"currency" validate:"required,iso4217"`
	PlatformCommissionRate *float64 `json:"platformCommissionRate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type InvoicePayment struct {
	ID                 uuid.UUID `json:"id"`
	TotalAmount        float64   `json:"totalAmount"`
	Currency           string    `json:"currency"`
	PlatformCommission float64   `json:"platformCommission"`
	TalentEarnings     float64   `json:"talentEarnings"`
	CommissionRate     float64   `json:"commissionRate"`
}

func invoiceError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
}

// CreateInvoice prices a booking for the talent and notifies the booker.
func CreateInvoice(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return invoiceError(c, fiber.StatusUnauthorized, "Invalid token claims")
	}

	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return invoiceError(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := validate.Struct(req); err != nil {
		return invoiceError(c, fiber.StatusBadRequest, err.Error())
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	result, err := services.CreateInvoice(c.UserContext(), deps.DB, who, services.InvoiceRequest{
		BookingID:              bookingID,
		AgreedPrice:            req.AgreedPrice,
		Currency:               req.Currency,
		PlatformCommissionRate: req.PlatformCommissionRate,
	})
	if err != nil {
		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			deps.Log.WithFields(map[string]interface{}{
				"booking_id": bookingID.String(),
				"error":      err.Error(),
			}).Error("Failed to create invoice")
			return invoiceError(c, code, "Failed to create invoice")
		}
		return invoiceError(c, code, err.Error())
	}
	committed(result.Notification)

	p := result.Payment
	return c.JSON(fiber.Map{
		"success": true,
		"payment": InvoicePayment{
			ID:                 p.ID,
			TotalAmount:        p.TotalAmount,
			Currency:           p.Currency,
			PlatformCommission: p.PlatformCommission,
			TalentEarnings:     p.TalentEarnings,
			CommissionRate:     p.CommissionRate,
		},
	})
}

// GetBookingInvoice renders the booking's invoice to PDF and returns its URL.
func GetBookingInvoice(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}
	if deps.Printer == nil || deps.Uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Invoice documents are not available"})
	}

	url, err := services.InvoiceDocument(c.UserContext(), deps.DB, who, bookingID, deps.Printer, deps.Uploader)
	if err != nil {
		return fail(c, err, "Failed to generate invoice")
	}
	return c.JSON(fiber.Map{"url": url})
}
