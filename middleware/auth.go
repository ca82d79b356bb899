package middleware

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

func Secret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return []byte(secret)
}

// Protected validates the bearer token and stores userID, role and sellerID
// (zero for non-sellers) in Locals for downstream handlers.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   Secret(),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken := c.Locals("user")
			token, ok := userToken.(*jwt.Token)
			if !ok {
				return utils.Error(c, fiber.StatusUnauthorized, "Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.Error(c, fiber.StatusUnauthorized, "Invalid token claims")
			}

			userID, err := extractUint(claims, "id")
			if err != nil {
				return utils.Error(c, fiber.StatusUnauthorized, "Invalid user ID in token")
			}
			role, ok := claims["role"].(string)
			if !ok || role == "" {
				return utils.Error(c, fiber.StatusUnauthorized, "Invalid role in token")
			}
			sellerID, _ := extractUint(claims, "seller_id")

			c.Locals("userID", userID)
			c.Locals("role", models.UserRole(role))
			c.Locals("sellerID", sellerID)
			return c.Next()
		},
	})
}

// extractUint handles the numeric claim formats jwt parsing can produce.
func extractUint(claims jwt.MapClaims, key string) (uint, error) {
	val := claims[key]
	if val == nil {
		return 0, fmt.Errorf("no %s found in claims", key)
	}
	switch v := val.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse %s string: %v", key, err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported %s type: %T", key, v)
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
}

// UserID reads the authenticated user id from Locals.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// SellerID reads the authenticated seller id from Locals; zero when the
// caller is not a seller.
func SellerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("sellerID").(uint)
	return id
}

// Role reads the authenticated role from Locals.
func Role(c *fiber.Ctx) models.UserRole {
	role, _ := c.Locals("role").(models.UserRole)
	return role
}
