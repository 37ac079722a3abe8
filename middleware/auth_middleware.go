package middleware

import (
	"strings"

	"twoknow/config"
	"twoknow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys set by JWTMiddleware.
const (
	LocalUserID = "userID"
	LocalEmail  = "userEmail"
)

// JWTMiddleware validates the bearer token in the Authorization header and
// stores the caller's id and email in the request locals.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return unauthorized(c, "Not authenticated")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return unauthorized(c, "Invalid token format")
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalEmail, claims.Email)

	return c.Next()
}

// ParseToken verifies an HS256 token signed with the configured secret.
func ParseToken(tokenStr string) (*models.JwtClaims, error) {
	claims := &models.JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// UserID returns the authenticated user's id from the request locals.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalUserID).(int64)
	return id, ok
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": msg})
}
