package handlers

import (
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          string  `json:"full_name" validate:"required,max=255"`
	Email             string  `json:"email" validate:"required,email"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" validate:"omitempty,url"`
}

func GetMyProfile(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	user, err := services.GetProfile(c.UserContext(), deps.DB, who.ID)
	if err != nil {
		return fail(c, err, "Failed to fetch profile")
	}
	return c.JSON(user)
}

func UpdateMyProfile(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := services.UpsertProfile(c.UserContext(), deps.DB, who, services.ProfileInput{
		FullName:          req.FullName,
		Email:             req.Email,
		Bio:               req.Bio,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return fail(c, err, "Failed to update profile")
	}
	return c.JSON(user)
}
