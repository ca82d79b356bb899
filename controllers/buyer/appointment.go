package buyer

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/booking"
	"github.com/theuzairlab/WrenchEX-Backend/chat"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/scheduling"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

type createAppointmentInput struct {
	ServiceID uint     `json:"service_id"`
	StartTime string   `json:"start_time"` // RFC3339
	EndTime   string   `json:"end_time"`   // RFC3339
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     string   `json:"notes"`
}

// bookingError maps ledger errors onto the API taxonomy.
func bookingError(c *fiber.Ctx, err error) error {
	var transition *booking.InvalidTransitionError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, booking.ErrSlotConflict):
		return utils.Error(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &transition),
		errors.Is(err, booking.ErrServiceInactive),
		errors.Is(err, booking.ErrSellerNotApproved),
		errors.Is(err, booking.ErrDurationMismatch),
		errors.Is(err, booking.ErrOutsideSchedule),
		errors.Is(err, booking.ErrPastStart),
		errors.Is(err, booking.ErrNotReschedulable):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		return utils.Internal(c)
	}
}

// CreateAppointment books a service for the authenticated buyer.
func CreateAppointment(c *fiber.Ctx) error {
	input := new(createAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	start, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid start time format. Please use RFC3339 format.")
	}
	end, err := time.Parse(time.RFC3339, input.EndTime)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid end time format. Please use RFC3339 format.")
	}

	appointment, err := booking.Create(db.DB, booking.CreateInput{
		BuyerID:   middleware.UserID(c),
		ServiceID: input.ServiceID,
		StartTime: start,
		EndTime:   end,
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Notes:     input.Notes,
	})
	if err != nil {
		return bookingError(c, err)
	}

	notifyBookingCreated(appointment)
	return utils.Created(c, appointment)
}

// notifyBookingCreated mails both parties, best effort.
func notifyBookingCreated(appointment *models.Appointment) {
	var buyer models.User
	var seller models.Seller
	if db.DB.First(&buyer, appointment.BuyerID).Error != nil ||
		db.DB.Preload("User").First(&seller, appointment.SellerID).Error != nil {
		return
	}
	when := appointment.StartTime.Format("2006-01-02 15:04")
	utils.NotifyEmail(buyer.Email, "Booking received",
		fmt.Sprintf("<p>Dear %s,</p><p>Your booking %s at %s on %s is awaiting confirmation.</p>",
			buyer.Name, appointment.Number, seller.ShopName, when))
	utils.NotifyEmail(seller.User.Email, "New booking",
		fmt.Sprintf("<p>Dear %s,</p><p>You have a new booking %s on %s.</p>",
			seller.User.Name, appointment.Number, when))
}

// MyAppointments lists the buyer's bookings, optionally filtered by status.
func MyAppointments(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.Appointment{}).
		Preload("Service").Preload("Seller").
		Where("buyer_id = ?", middleware.UserID(c))

	if status := c.Query("status"); status != "" {
		if !models.AppointmentStatus(status).Valid() {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Order("start_time desc").Offset(offset).Limit(limit).Find(&appointments).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, appointments, page, limit, total)
}

// GetAppointment returns one booking with its audit trail; buyer-side view.
func GetAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	err := db.DB.Preload("Service").Preload("Seller").Preload("Buyer").
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc, id asc") }).
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.BuyerID != middleware.UserID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only view your own appointments")
	}
	return utils.Success(c, appointment)
}

// CancelAppointment cancels the buyer's own booking.
func CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid appointment ID")
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	}
	if appointment.BuyerID != middleware.UserID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only cancel your own appointments")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	c.BodyParser(&input)

	updated, err := booking.Cancel(db.DB, uint(id), middleware.UserID(c), input.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return utils.Success(c, updated)
}

// GetAvailableSlots returns the full-day grid of probe windows for a service
// on a date, each flagged with its conflict result.
func GetAvailableSlots(c *fiber.Ctx) error {
	serviceID := c.QueryInt("service_id")
	if serviceID <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "service_id is required")
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
	}

	var service models.Service
	if err := db.DB.First(&service, serviceID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}

	slots, err := scheduling.DaySlots(db.DB, service.SellerID, service.Duration(), date)
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, fiber.Map{
		"date":       c.Query("date"),
		"service_id": service.ID,
		"slots":      slots,
	})
}

// GetNextAvailableSlot scans forward for the first bookable window. An empty
// horizon is a valid negative result, not an error.
func GetNextAvailableSlot(c *fiber.Ctx) error {
	serviceID := c.QueryInt("service_id")
	if serviceID <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "service_id is required")
	}

	from := time.Now()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid from time format. Please use RFC3339 format.")
		}
		if parsed.After(from) {
			from = parsed
		}
	}

	daysAhead := 14
	if parsed := c.QueryInt("days_ahead"); parsed > 0 && parsed <= 60 {
		daysAhead = parsed
	}

	var service models.Service
	if err := db.DB.First(&service, serviceID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}

	slot, err := scheduling.NextAvailableSlot(db.DB, service.SellerID, service.Duration(), from, daysAhead)
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, fiber.Map{
		"service_id": service.ID,
		"slot":       slot, // null when nothing is free within the horizon
	})
}

// Appointment-scoped messages (separate from product chat).

func SendAppointmentMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid appointment ID")
	}
	var input struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	message, err := chat.SendAppointmentMessage(db.DB, uint(id), middleware.UserID(c), input.Body)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	case errors.Is(err, chat.ErrNotParticipant):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, chat.ErrInvalidMessage):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return utils.Internal(c)
	}
	return utils.Created(c, message)
}

func ListAppointmentMessages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid appointment ID")
	}

	messages, err := chat.ListAppointmentMessages(db.DB, uint(id), middleware.UserID(c))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Appointment not found")
	case errors.Is(err, chat.ErrNotParticipant):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		return utils.Internal(c)
	}
	return utils.Success(c, messages)
}
