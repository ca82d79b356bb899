package scheduling

import (
	"time"

	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckAvailability reports whether [start,end) is free of conflicting
// appointments for the seller. Only pending, confirmed and in-progress
// bookings occupy their window; completed and cancelled never conflict.
// excludeID skips one appointment, used when rescheduling.
func CheckAvailability(dbh *gorm.DB, sellerID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := dbh.Model(&models.Appointment{}).
		Where("seller_id = ?", sellerID).
		Where("status IN ?", models.ConflictingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// dayAvailability resolves the recurring row for the weekday of date.
// Returns nil when the seller has no row for that day.
func dayAvailability(dbh *gorm.DB, sellerID uint, date time.Time) (*models.SellerAvailability, error) {
	var row models.SellerAvailability
	err := dbh.Where("seller_id = ? AND day_of_week = ?", sellerID, models.DayOfWeek(date.Weekday())).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// onTimeOff reports whether an active time-off range covers the given day.
func onTimeOff(dbh *gorm.DB, sellerID uint, day time.Time) (bool, error) {
	var offs []models.SellerTimeOff
	if err := dbh.Where("seller_id = ? AND is_active = ?", sellerID, true).
		Find(&offs).Error; err != nil {
		return false, err
	}
	for i := range offs {
		if offs[i].Covers(day) {
			return true, nil
		}
	}
	return false, nil
}

// WithinWorkingWindow reports whether [start,end) may be booked against the
// seller's schedule. A seller with no recurring row for the weekday is
// treated as fully open here — sellers must not be blocked from taking
// bookings before they have configured a schedule. Slot generation treats
// the same case as fully closed (see DaySlots); the asymmetry is deliberate.
func WithinWorkingWindow(dbh *gorm.DB, sellerID uint, start, end time.Time) (bool, error) {
	off, err := onTimeOff(dbh, sellerID, start)
	if err != nil {
		return false, err
	}
	if off {
		return false, nil
	}

	row, err := dayAvailability(dbh, sellerID, start)
	if err != nil {
		return false, err
	}
	if row == nil {
		return true, nil
	}
	if !row.IsAvailable {
		return false, nil
	}

	winStart, winEnd, err := row.Window(start)
	if err != nil {
		return false, err
	}
	return !start.Before(winStart) && !end.After(winEnd), nil
}
