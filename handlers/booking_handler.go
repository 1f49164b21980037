package handlers

import (
	"strings"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	TalentID  *string   `json:"talent_id,omitempty" validate:"omitempty,uuid"`
	EventDate time.Time `json:"event_date" validate:"required"`
	EventType string    `json:"event_type" validate:"required,max=100"`
	Location  *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Notes     *string   `json:"notes,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type DeclineBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

func CreateBooking(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	req.EventType = strings.TrimSpace(req.EventType)
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	in := services.CreateBookingInput{
		EventDate: req.EventDate,
		EventType: req.EventType,
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if req.TalentID != nil {
		talentID, _ := uuid.Parse(*req.TalentID)
		in.TalentID = &talentID
	}

	result, err := services.CreateBooking(c.UserContext(), deps.DB, who, in)
	if err != nil {
		return fail(c, err, "Failed to create booking")
	}
	committed(result.Notifications...)
	return c.Status(fiber.StatusCreated).JSON(result.Booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	bookings, err := services.ListMyBookings(c.UserContext(), deps.DB, who.ID)
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return c.JSON(bookings)
}

// UpdateBookingStatus moves a booking along its workflow on behalf of the caller.
func UpdateBookingStatus(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	next, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.UpdateBookingStatus(c.UserContext(), deps.DB, who, bookingID, next)
	if err != nil {
		return fail(c, err, "Failed to update booking")
	}
	committed(result.Notifications...)
	return c.JSON(result.Booking)
}

// DeclineBooking lets the booker decline an invoiced booking. Notifying the talent
// is best-effort and never fails the request.
func DeclineBooking(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req DeclineBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "booking_id is required"})
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	booking, err := services.DeclineBooking(c.UserContext(), deps.DB, who, bookingID)
	if err != nil {
		return fail(c, err, "Failed to decline booking")
	}

	var notes []models.Notification
	note, err := services.NotifyTalentOfDecline(c.UserContext(), deps.DB, *booking)
	if err != nil {
		deps.Log.WithFields(map[string]interface{}{
			"booking_id": booking.ID.String(),
			"error":      err.Error(),
		}).Warn("Failed to notify talent of declined invoice")
	} else if note != nil {
		notes = append(notes, *note)
	}
	committed(notes...)

	return c.JSON(fiber.Map{"success": true})
}
