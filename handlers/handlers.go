package handlers

import (
	"context"
	"errors"
	"time"

	config "github.com/anjiri1684/talent_booking/configs"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/notifications"
	"github.com/anjiri1684/talent_booking/realtime"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/anjiri1684/talent_booking/websocket"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Waker is told that new change events were committed.
type Waker interface {
	Wake()
}

type Dependencies struct {
	DB        *gorm.DB
	Log       logger.Logger
	Config    *config.AppConfig
	Mailer    notifications.Mailer
	Relay     Waker
	ChangeHub *realtime.Hub
	ChatHub   *websocket.Hub
	Printer   services.PDFPrinter
	Uploader  services.DocumentUploader
	Rates     services.Converter
	Now       func() time.Time
}

var (
	deps     Dependencies
	validate = validator.New()
)

// Init wires the handlers to their collaborators. It must run before routes are served.
func Init(d Dependencies) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Config == nil {
		d.Config = &config.AppConfig{}
	}
	deps = d
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrGigNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, realtime.ErrSubscriptionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNoTalentAssigned),
		errors.Is(err, services.ErrGigClosed),
		errors.Is(err, services.ErrAlreadyApplied),
		errors.Is(err, services.ErrAlreadySettled):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, workflow.ErrMalformedChange),
		errors.Is(err, realtime.ErrInvalidSubscription):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// fail maps a service error to its status. Server errors are logged and answered with msg.
func fail(c *fiber.Ctx, err error, msg string) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		deps.Log.WithFields(map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		}).Error(msg)
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// committed runs the side effects of a successful write: wake the relay and email
// the persisted notifications. Email is fire-and-forget.
func committed(notes ...models.Notification) {
	if deps.Relay != nil {
		deps.Relay.Wake()
	}
	if deps.Mailer == nil || len(notes) == 0 {
		return
	}
	go services.EmailNotifications(context.Background(), deps.DB, deps.Mailer, deps.Log, notes)
}

func caller(c *fiber.Ctx) (services.Caller, error) {
	return middleware.CurrentCaller(c)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
}
