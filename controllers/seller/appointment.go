package seller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/booking"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// UpcomingAppointments returns occupying bookings for the seller within a
// date filter window.
func UpcomingAppointments(c *fiber.Ctx) error {
	limit := 10
	if parsed := c.QueryInt("limit"); parsed > 0 {
		limit = parsed
	}

	now := time.Now()
	startDate := now
	endDate := now.AddDate(0, 1, 0)

	dateFilter := c.Query("filter", "month")
	switch dateFilter {
	case "today":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = startDate.AddDate(0, 0, 1)
	case "tomorrow":
		tomorrow := now.AddDate(0, 0, 1)
		startDate = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
		endDate = startDate.AddDate(0, 0, 1)
	case "week":
		endDate = now.AddDate(0, 0, 7)
	case "month":
		endDate = now.AddDate(0, 1, 0)
	}

	var appointments []models.Appointment
	err := db.DB.
		Preload("Service").Preload("Buyer").
		Where("seller_id = ?", middleware.SellerID(c)).
		Where("start_time >= ? AND start_time <= ?", startDate, endDate).
		Where("status IN ?", models.ConflictingStatuses).
		Order("start_time asc").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return utils.Internal(c)
	}

	return utils.Success(c, fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
		"filter":       dateFilter,
	})
}

// AppointmentHistory returns terminal bookings, paginated.
func AppointmentHistory(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	statuses := []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled}
	switch models.AppointmentStatus(c.Query("status")) {
	case models.StatusCompleted:
		statuses = []models.AppointmentStatus{models.StatusCompleted}
	case models.StatusCancelled:
		statuses = []models.AppointmentStatus{models.StatusCancelled}
	}

	query := db.DB.Model(&models.Appointment{}).
		Preload("Service").Preload("Buyer").
		Where("seller_id = ?", middleware.SellerID(c)).
		Where("status IN ?", statuses)

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Order("end_time desc").Offset(offset).Limit(limit).Find(&appointments).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, appointments, page, limit, total)
}

// GetAppointment returns one booking with its audit trail; seller-side view.
func GetAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	err := db.DB.Preload("Service").Preload("Buyer").
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc, id asc") }).
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only view your own appointments")
	}
	return utils.Success(c, appointment)
}

// UpdateAppointmentStatus advances the state machine (confirm, start,
// complete, cancel).
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid appointment ID")
	}

	var input struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only update your own appointments")
	}

	updated, err := booking.UpdateStatus(db.DB, uint(id), models.AppointmentStatus(input.Status),
		middleware.UserID(c), input.Notes)
	if err != nil {
		var transition *booking.InvalidTransitionError
		if errors.As(err, &transition) {
			return utils.Error(c, fiber.StatusBadRequest, transition.Error())
		}
		return utils.Internal(c)
	}

	notifyStatusChange(updated)
	return utils.Success(c, updated)
}

func notifyStatusChange(appointment *models.Appointment) {
	var buyer models.User
	if db.DB.First(&buyer, appointment.BuyerID).Error != nil {
		return
	}
	utils.NotifyEmail(buyer.Email, "Booking update",
		fmt.Sprintf("<p>Dear %s,</p><p>Your booking %s is now %s.</p>",
			buyer.Name, appointment.Number, appointment.Status))
}

// RescheduleAppointment moves a pending or confirmed booking.
func RescheduleAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid appointment ID")
	}

	var input struct {
		StartTime string `json:"start_time"` // RFC3339
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	newStart, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid start time format. Please use RFC3339 format.")
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only reschedule your own appointments")
	}

	updated, err := booking.Reschedule(db.DB, uint(id), newStart, middleware.UserID(c))
	switch {
	case errors.Is(err, booking.ErrSlotConflict):
		return utils.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotReschedulable),
		errors.Is(err, booking.ErrPastStart),
		errors.Is(err, booking.ErrOutsideSchedule):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return utils.Internal(c)
	}

	notifyStatusChange(updated)
	return utils.Success(c, updated)
}
