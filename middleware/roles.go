package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// RequireRole gates a route on exact role membership.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != role {
			return utils.Error(c, fiber.StatusForbidden, "You don't have the required role to perform this action")
		}
		return c.Next()
	}
}

// RequireApprovedSeller additionally checks the approval flag on the seller
// record. The flag is read from the database, not the token, so a revoked
// approval takes effect on the next request.
func RequireApprovedSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != models.RoleSeller {
			return utils.Error(c, fiber.StatusForbidden, "Seller account required")
		}
		var seller models.Seller
		if err := db.DB.Where("user_id = ?", UserID(c)).First(&seller).Error; err != nil {
			return utils.Error(c, fiber.StatusForbidden, "Seller profile not found")
		}
		if !seller.IsApproved {
			return utils.Error(c, fiber.StatusForbidden, "Seller account is awaiting approval")
		}
		c.Locals("sellerID", seller.ID)
		return c.Next()
	}
}
