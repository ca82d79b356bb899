package seller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/scheduling"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// GetAvailability returns the seller's recurring weekly windows.
func GetAvailability(c *fiber.Ctx) error {
	rows, err := scheduling.GetWeeklyAvailability(db.DB, middleware.SellerID(c))
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, rows)
}

type availabilityRowInput struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// SetAvailability upserts recurring windows. Submitting the full week
// applies as one atomic batch.
func SetAvailability(c *fiber.Ctx) error {
	var input struct {
		Days []availabilityRowInput `json:"days"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if len(input.Days) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "days is required")
	}

	rows := make([]models.SellerAvailability, 0, len(input.Days))
	for _, day := range input.Days {
		rows = append(rows, models.SellerAvailability{
			DayOfWeek:   models.DayOfWeek(day.DayOfWeek),
			StartTime:   day.StartTime,
			EndTime:     day.EndTime,
			IsAvailable: day.IsAvailable,
		})
	}

	if err := scheduling.SetWeeklyAvailability(db.DB, middleware.SellerID(c), rows); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	saved, err := scheduling.GetWeeklyAvailability(db.DB, middleware.SellerID(c))
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, saved)
}

// ListTimeOff returns the seller's active time-off ranges.
func ListTimeOff(c *fiber.Ctx) error {
	offs, err := scheduling.ListTimeOff(db.DB, middleware.SellerID(c))
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, offs)
}

// CreateTimeOff closes a date range. Rejected when it overlaps existing
// active time-off or contains booked appointments.
func CreateTimeOff(c *fiber.Ctx) error {
	var input struct {
		StartDate string `json:"start_date"` // YYYY-MM-DD
		EndDate   string `json:"end_date"`   // YYYY-MM-DD
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid start_date format, use YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid end_date format, use YYYY-MM-DD")
	}

	off, err := scheduling.CreateTimeOff(db.DB, middleware.SellerID(c), start, end, input.Reason)
	switch {
	case errors.Is(err, scheduling.ErrTimeOffOverlap),
		errors.Is(err, scheduling.ErrTimeOffBooked),
		errors.Is(err, scheduling.ErrInvalidWindow):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return utils.Internal(c)
	}
	return utils.Created(c, off)
}

// CancelTimeOff deactivates a time-off range.
func CancelTimeOff(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid time off ID")
	}

	err = scheduling.CancelTimeOff(db.DB, middleware.SellerID(c), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "Time off not found")
	}
	if err != nil {
		return utils.Internal(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
