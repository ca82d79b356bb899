package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/cache"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// StatsCache keeps the aggregate counts warm between moderation page loads.
var StatsCache = cache.Nop()

// GetStats returns aggregate counts for the moderation panel.
func GetStats(c *fiber.Ctx) error {
	var stats fiber.Map
	if StatsCache.Get(c.Context(), "admin:stats", &stats) {
		return utils.Success(c, stats)
	}

	countWhere := func(model interface{}, query string, args ...interface{}) int64 {
		var count int64
		q := db.DB.Model(model)
		if query != "" {
			q = q.Where(query, args...)
		}
		q.Count(&count)
		return count
	}

	appointmentsByStatus := map[string]int64{}
	for _, status := range []models.AppointmentStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	} {
		appointmentsByStatus[string(status)] = countWhere(&models.Appointment{}, "status = ?", status)
	}

	stats = fiber.Map{
		"users": fiber.Map{
			"total":   countWhere(&models.User{}, ""),
			"buyers":  countWhere(&models.User{}, "role = ?", models.RoleBuyer),
			"sellers": countWhere(&models.User{}, "role = ?", models.RoleSeller),
		},
		"sellers": fiber.Map{
			"approved": countWhere(&models.Seller{}, "is_approved = ?", true),
			"pending":  countWhere(&models.Seller{}, "is_approved = ?", false),
		},
		"products":     countWhere(&models.Product{}, "is_active = ?", true),
		"services":     countWhere(&models.Service{}, "is_active = ?", true),
		"appointments": appointmentsByStatus,
		"chats":        countWhere(&models.ProductChat{}, ""),
	}

	StatsCache.Set(c.Context(), "admin:stats", stats, time.Minute)
	return utils.Success(c, stats)
}

// ListPendingSellers returns shops awaiting approval.
func ListPendingSellers(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.Seller{}).
		Preload("User").
		Where("is_approved = ?", false)

	var total int64
	query.Count(&total)

	var sellers []models.Seller
	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&sellers).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, sellers, page, limit, total)
}

// SetSellerApproval approves or revokes a shop.
func SetSellerApproval(c *fiber.Ctx) error {
	var input struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var seller models.Seller
	if err := db.DB.Preload("User").First(&seller, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Seller not found")
	}

	if err := db.DB.Model(&seller).Update("is_approved", input.Approved).Error; err != nil {
		return utils.Internal(c)
	}

	subject := "Your WrenchEX shop has been approved"
	body := "<p>Your shop is live. You can now publish listings and take bookings.</p>"
	if !input.Approved {
		subject = "Your WrenchEX shop approval was revoked"
		body = "<p>Your shop is no longer visible to buyers. Contact support for details.</p>"
	}
	utils.NotifyEmail(seller.User.Email, subject, body)

	return utils.Success(c, seller)
}

// ListUsers returns accounts with optional role filter.
func ListUsers(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.User{}).Preload("Seller")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, users, page, limit, total)
}

// DeleteUser removes an account. Blocked while the user still owns active
// listings.
func DeleteUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Seller").First(&user, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "User not found")
	}

	if user.Seller != nil {
		var active int64
		db.DB.Model(&models.Product{}).
			Where("seller_id = ? AND is_active = ?", user.Seller.ID, true).
			Count(&active)
		var activeServices int64
		db.DB.Model(&models.Service{}).
			Where("seller_id = ? AND is_active = ?", user.Seller.ID, true).
			Count(&activeServices)
		if active+activeServices > 0 {
			return utils.Error(c, fiber.StatusBadRequest, "User still has active listings")
		}
	}

	if err := db.DB.Delete(&user).Error; err != nil {
		return utils.Internal(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeactivateProduct hides a listing from buyers.
func DeactivateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := db.DB.First(&product, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err := db.DB.Model(&product).Update("is_active", false).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, product)
}

// DeactivateService hides a bookable service from buyers.
func DeactivateService(c *fiber.Ctx) error {
	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}
	if err := db.DB.Model(&service).Update("is_active", false).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, service)
}
