package handlers

import (
	"strconv"

	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetNotifications(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	items, total, err := services.ListNotifications(c.UserContext(), deps.DB, who.ID, page, pageSize)
	if err != nil {
		return fail(c, err, "Failed to fetch notifications")
	}
	return c.JSON(fiber.Map{
		"data":  items,
		"total": total,
		"page":  page,
	})
}

func GetUnreadCount(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	count, err := services.UnreadCount(c.UserContext(), deps.DB, who.ID)
	if err != nil {
		return fail(c, err, "Failed to count notifications")
	}
	return c.JSON(fiber.Map{"unread": count})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	n, err := services.MarkNotificationRead(c.UserContext(), deps.DB, who.ID, id, deps.Now())
	if err != nil {
		return fail(c, err, "Failed to update notification")
	}
	committed()
	return c.JSON(n)
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return unauthorized(c)
	}
	marked, err := services.MarkAllNotificationsRead(c.UserContext(), deps.DB, who.ID, deps.Now())
	if err != nil {
		return fail(c, err, "Failed to update notifications")
	}
	if marked > 0 {
		committed()
	}
	return c.JSON(fiber.Map{"marked": marked})
}
