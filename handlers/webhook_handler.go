package handlers

import (
	"net/http"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/tidwall/gjson"
	"gorm.io/datatypes"
)

// verifyWebhook checks the Standard Webhooks signature headers against the raw body.
func verifyWebhook(c *fiber.Ctx, secret string) error {
	wh, err := standardwebhooks.NewWebhook(secret)
	if err != nil {
		return err
	}
	headers := http.Header{}
	headers.Set("Webhook-Id", c.Get("webhook-id"))
	headers.Set("Webhook-Timestamp", c.Get("webhook-timestamp"))
	headers.Set("Webhook-Signature", c.Get("webhook-signature"))
	return wh.Verify(c.Body(), headers)
}

// ReceiveChangeWebhook ingests a row change reported by the database webhook.
func ReceiveChangeWebhook(c *fiber.Ctx) error {
	secret := deps.Config.Webhook.ChangeSecret
	if secret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Change webhook is not configured"})
	}
	if err := verifyWebhook(c, secret); err != nil {
		deps.Log.WithField("error", err.Error()).Warn("⚠️ Rejected change webhook with invalid signature")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	body := c.Body()
	if !gjson.ValidBytes(body) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	payload := gjson.ParseBytes(body)
	table := payload.Get("table").String()
	typ := payload.Get("type").String()
	if table == "" || typ == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type and table are required"})
	}

	ev := models.ChangeEvent{
		Table:  table,
		Type:   typ,
		Schema: payload.Get("schema").String(),
	}
	if rec := payload.Get("record"); rec.Exists() {
		ev.Record = datatypes.JSON(rec.Raw)
	}
	if old := payload.Get("old_record"); old.Exists() {
		ev.OldRecord = datatypes.JSON(old.Raw)
	}

	saved, err := services.IngestChange(c.UserContext(), deps.DB, ev)
	if err != nil {
		return fail(c, err, "Failed to store change event")
	}
	committed()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"seq": saved.Seq})
}
