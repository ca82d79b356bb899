package models

import (
	"time"

	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// SellerAvailability is a recurring weekly open-hours window, one row per
// (seller, day of week). Times are "HH:MM" 24h in the seller's local day.
type SellerAvailability struct {
	gorm.Model
	SellerID    uint      `json:"seller_id" gorm:"index:idx_seller_day,unique"`
	DayOfWeek   DayOfWeek `json:"day_of_week" gorm:"index:idx_seller_day,unique"`
	StartTime   string    `json:"start_time"` // "HH:MM"
	EndTime     string    `json:"end_time"`   // "HH:MM"
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
}

// Window resolves the recurring HH:MM bounds onto a concrete date.
func (a *SellerAvailability) Window(date time.Time) (start, end time.Time, err error) {
	s, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return start, end, err
	}
	e, err := time.Parse("15:04", a.EndTime)
	if err != nil {
		return start, end, err
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), s.Hour(), s.Minute(), 0, 0, date.Location())
	end = time.Date(date.Year(), date.Month(), date.Day(), e.Hour(), e.Minute(), 0, 0, date.Location())
	return start, end, nil
}

// SellerTimeOff marks a date range as closed regardless of the recurring
// schedule. Active ranges for one seller never overlap.
type SellerTimeOff struct {
	gorm.Model
	SellerID  uint      `json:"seller_id" gorm:"index"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// Covers reports whether t falls inside the time-off range (inclusive on
// both dates, compared at day granularity).
func (t *SellerTimeOff) Covers(at time.Time) bool {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, at.Location())
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, at.Location())
	return !day.Before(start) && !day.After(end)
}
