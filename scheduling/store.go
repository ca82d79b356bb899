package scheduling

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

var (
	ErrTimeOffOverlap = errors.New("time off overlaps an existing active time off")
	ErrTimeOffBooked  = errors.New("time off range contains booked appointments")
	ErrInvalidWindow  = errors.New("start time must be before end time")
)

// SetWeeklyAvailability upserts recurring windows keyed on (seller, day of
// week). All submitted rows are applied in a single transaction so a failure
// cannot leave the week partially updated.
func SetWeeklyAvailability(dbh *gorm.DB, sellerID uint, rows []models.SellerAvailability) error {
	for i := range rows {
		s, err := time.Parse("15:04", rows[i].StartTime)
		if err != nil {
			return fmt.Errorf("day %d: invalid start time %q", rows[i].DayOfWeek, rows[i].StartTime)
		}
		e, err := time.Parse("15:04", rows[i].EndTime)
		if err != nil {
			return fmt.Errorf("day %d: invalid end time %q", rows[i].DayOfWeek, rows[i].EndTime)
		}
		if !s.Before(e) {
			return ErrInvalidWindow
		}
		if rows[i].DayOfWeek < models.Sunday || rows[i].DayOfWeek > models.Saturday {
			return fmt.Errorf("invalid day of week %d", rows[i].DayOfWeek)
		}
	}

	return dbh.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			row := models.SellerAvailability{
				SellerID:    sellerID,
				DayOfWeek:   rows[i].DayOfWeek,
				StartTime:   rows[i].StartTime,
				EndTime:     rows[i].EndTime,
				IsAvailable: rows[i].IsAvailable,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "seller_id"}, {Name: "day_of_week"}},
				DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_available", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func GetWeeklyAvailability(dbh *gorm.DB, sellerID uint) ([]models.SellerAvailability, error) {
	var rows []models.SellerAvailability
	err := dbh.Where("seller_id = ?", sellerID).
		Order("day_of_week asc").
		Find(&rows).Error
	return rows, err
}

// CreateTimeOff records a closed date range. It is rejected when it overlaps
// another active time-off for the seller, or when a still-occupying
// appointment falls inside the range.
func CreateTimeOff(dbh *gorm.DB, sellerID uint, startDate, endDate time.Time, reason string) (*models.SellerTimeOff, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidWindow
	}

	var overlapping int64
	err := dbh.Model(&models.SellerTimeOff{}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&overlapping).Error
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrTimeOffOverlap
	}

	// The range closes whole days, so any occupying appointment between
	// startDate 00:00 and the end of endDate blocks it.
	rangeStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	rangeEnd := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location()).AddDate(0, 0, 1)

	var booked int64
	err = dbh.Model(&models.Appointment{}).
		Where("seller_id = ?", sellerID).
		Where("status IN ?", models.ConflictingStatuses).
		Where("start_time < ? AND end_time > ?", rangeEnd, rangeStart).
		Count(&booked).Error
	if err != nil {
		return nil, err
	}
	if booked > 0 {
		return nil, ErrTimeOffBooked
	}

	off := models.SellerTimeOff{
		SellerID:  sellerID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
		IsActive:  true,
	}
	if err := dbh.Create(&off).Error; err != nil {
		return nil, err
	}
	return &off, nil
}

func ListTimeOff(dbh *gorm.DB, sellerID uint) ([]models.SellerTimeOff, error) {
	var offs []models.SellerTimeOff
	err := dbh.Where("seller_id = ? AND is_active = ?", sellerID, true).
		Order("start_date asc").
		Find(&offs).Error
	return offs, err
}

// CancelTimeOff deactivates a time-off range; the rows are kept for history.
func CancelTimeOff(dbh *gorm.DB, sellerID, id uint) error {
	res := dbh.Model(&models.SellerTimeOff{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
