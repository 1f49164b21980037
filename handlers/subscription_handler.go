package handlers

import (
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ActivateSubscriptionRequest struct {
	UserID         string `json:"user_id" validate:"required,uuid"`
	SubscriptionID string `json:"subscription_id" validate:"required"`
	PlanID         string `json:"plan_id" validate:"required"`
}

func ActivateSubscription(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ActivateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	userID, _ := uuid.Parse(req.UserID)

	result, err := services.ActivateSubscription(c.UserContext(), deps.DB, who, services.ActivateSubscriptionInput{
		UserID:         userID,
		SubscriptionID: req.SubscriptionID,
		PlanID:         req.PlanID,
	}, deps.Now())
	if err != nil {
		return fail(c, err, "Failed to activate subscription")
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"subscription_period": result.Period,
		"subscription_end":    result.End,
	})
}
