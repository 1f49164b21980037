package routes

import (
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/gofiber/fiber/v2"
)

func GigRoutes(app *fiber.App, secret string) {
	api := app.Group("/api/v1")

	gigs := api.Group("/gigs", middleware.Protected(secret))
	gigs.Get("", handlers.ListGigs)
	gigs.Post("", middleware.RoleRequired(models.RoleBooker, models.RoleAdmin), handlers.CreateGig)
	gigs.Post("/:gigId/applications", middleware.RoleRequired(models.RoleTalent), handlers.ApplyToGig)

	applications := api.Group("/gig-applications", middleware.Protected(secret))
	applications.Patch("/:applicationId/status", handlers.UpdateApplicationStatus)
}
