package handlers

import (
	"strings"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateGigRequest struct {
	Title     string    `json:"title" validate:"required,max=255"`
	EventType string    `json:"event_type" validate:"required,max=100"`
	EventDate time.Time `json:"event_date" validate:"required"`
	Budget    float64   `json:"budget" validate:"gte=0"`
	Currency  string    `json:"currency" validate:"required,iso4217"`
}

type UpdateApplicationRequest struct {
	Status        string   `json:"status" validate:"required"`
	ProposedPrice *float64 `json:"proposed_price,omitempty" validate:"omitempty,gt=0"`
	Currency      *string  `json:"currency,omitempty" validate:"omitempty,iso4217"`
}

func CreateGig(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateGigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gig, err := services.CreateGig(c.UserContext(), deps.DB, who, services.CreateGigInput{
		Title:     req.Title,
		EventType: req.EventType,
		EventDate: req.EventDate,
		Budget:    req.Budget,
		Currency:  req.Currency,
	})
	if err != nil {
		return fail(c, err, "Failed to create gig")
	}
	committed()
	return c.Status(fiber.StatusCreated).JSON(gig)
}

func ListGigs(c *fiber.Ctx) error {
	gigs, err := services.ListOpenGigs(c.UserContext(), deps.DB, deps.Now())
	if err != nil {
		return fail(c, err, "Failed to fetch gigs")
	}
	return c.JSON(gigs)
}

func ApplyToGig(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	gigID, err := uuid.Parse(c.Params("gigId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	app, err := services.ApplyToGig(c.UserContext(), deps.DB, who, gigID)
	if err != nil {
		return fail(c, err, "Failed to apply to gig")
	}
	committed()
	return c.Status(fiber.StatusCreated).JSON(app)
}

func UpdateApplicationStatus(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	applicationID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID"})
	}

	var req UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*req.Currency))
		req.Currency = &upper
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	next, err := models.ParseGigApplicationStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.UpdateApplicationStatus(c.UserContext(), deps.DB, who, applicationID, services.ApplicationUpdate{
		Status:        next,
		ProposedPrice: req.ProposedPrice,
		Currency:      req.Currency,
	})
	if err != nil {
		return fail(c, err, "Failed to update application")
	}
	committed(result.Notifications...)
	return c.JSON(result.Application)
}
