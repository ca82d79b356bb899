package seller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// Dashboard returns the seller's operational overview: booking counts by
// status, today's schedule, revenue from completed bookings and unread chat
// volume.
func Dashboard(c *fiber.Ctx) error {
	sellerID := middleware.SellerID(c)
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	statusCounts := map[string]int64{}
	for _, status := range []models.AppointmentStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	} {
		var count int64
		db.DB.Model(&models.Appointment{}).
			Where("seller_id = ? AND status = ?", sellerID, status).
			Count(&count)
		statusCounts[string(status)] = count
	}

	var todayAppointments []models.Appointment
	db.DB.Preload("Service").Preload("Buyer").
		Where("seller_id = ?", sellerID).
		Where("start_time >= ? AND start_time < ?", startOfDay, startOfDay.AddDate(0, 0, 1)).
		Where("status IN ?", models.ConflictingStatuses).
		Order("start_time asc").
		Find(&todayAppointments)

	var monthRevenue float64
	db.DB.Model(&models.Appointment{}).
		Where("seller_id = ? AND status = ?", sellerID, models.StatusCompleted).
		Where("end_time >= ?", startOfMonth).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&monthRevenue)

	var unreadMessages int64
	db.DB.Model(&models.ProductMessage{}).
		Joins("JOIN product_chats ON product_chats.id = product_messages.chat_id").
		Where("product_chats.seller_id = ?", sellerID).
		Where("product_messages.is_read = ?", false).
		Where("product_messages.sender_id != ?", middleware.UserID(c)).
		Count(&unreadMessages)

	return utils.Success(c, fiber.Map{
		"status_counts":   statusCounts,
		"today":           todayAppointments,
		"month_revenue":   monthRevenue,
		"unread_messages": unreadMessages,
	})
}
