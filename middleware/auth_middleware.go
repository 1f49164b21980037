package middleware

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ErrorHandler:  jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CallerFromClaims reads the subject from "sub", falling back to "user_id".
// A token without a role acts as a booker.
func CallerFromClaims(claims jwt.MapClaims) (services.Caller, error) {
	raw, _ := claims["sub"].(string)
	if raw == "" {
		raw, _ = claims["user_id"].(string)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return services.Caller{}, fmt.Errorf("subject %q: %w", raw, ErrInvalidToken)
	}
	role, _ := claims["role"].(string)
	switch role {
	case models.RoleAdmin, models.RoleTalent, models.RoleBooker:
	default:
		role = models.RoleBooker
	}
	return services.Caller{ID: id, Role: role}, nil
}

// CurrentCaller returns the caller of a request that passed Protected.
func CurrentCaller(c *fiber.Ctx) (services.Caller, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return services.Caller{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.Caller{}, ErrInvalidToken
	}
	return CallerFromClaims(claims)
}

// ParseToken validates a raw HS256 token, as sent in the websocket auth frame.
func ParseToken(secret, tokenString string) (services.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return services.Caller{}, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return services.Caller{}, ErrInvalidToken
	}
	return CallerFromClaims(claims)
}

func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := CurrentCaller(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
		}
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: insufficient role",
		})
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}
