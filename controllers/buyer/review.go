package buyer

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// CreateReview lets a buyer rate a completed appointment once. The seller's
// aggregate rating is recomputed in the same transaction.
func CreateReview(c *fiber.Ctx) error {
	var input struct {
		AppointmentID uint    `json:"appointment_id"`
		Rating        float64 `json:"rating"`
		Comment       string  `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Rating < 1.0 || input.Rating > 5.0 {
		return utils.Error(c, fiber.StatusBadRequest, "Rating must be between 1 and 5")
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, input.AppointmentID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.BuyerID != middleware.UserID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only review your own appointments")
	}
	if appointment.Status != models.StatusCompleted {
		return utils.Error(c, fiber.StatusBadRequest, "Only completed appointments can be reviewed")
	}

	var existing int64
	db.DB.Model(&models.Review{}).Where("appointment_id = ?", appointment.ID).Count(&existing)
	if existing > 0 {
		return utils.Error(c, fiber.StatusConflict, "This appointment has already been reviewed")
	}

	review := models.Review{
		Rating:        input.Rating,
		Comment:       input.Comment,
		SellerID:      appointment.SellerID,
		BuyerID:       appointment.BuyerID,
		AppointmentID: appointment.ID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var stats struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&models.Review{}).
			Select("AVG(rating) as avg, COUNT(*) as count").
			Where("seller_id = ?", appointment.SellerID).
			Scan(&stats).Error; err != nil {
			return err
		}
		return tx.Model(&models.Seller{}).
			Where("id = ?", appointment.SellerID).
			Updates(map[string]interface{}{
				"rating_average": stats.Avg,
				"rating_count":   stats.Count,
			}).Error
	})
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Created(c, review)
}

// GetSellerReviews lists reviews for a shop.
func GetSellerReviews(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	sellerID := c.Params("id")
	query := db.DB.Model(&models.Review{}).
		Preload("Buyer").
		Where("seller_id = ?", sellerID)

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, reviews, page, limit, total)
}
