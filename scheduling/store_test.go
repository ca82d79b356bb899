package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

func TestSetWeeklyAvailabilityUpserts(t *testing.T) {
	dbh := openTestDB(t)

	err := SetWeeklyAvailability(dbh, 1, []models.SellerAvailability{
		{DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: models.Tuesday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	})
	require.NoError(t, err)

	// Resubmitting a day must replace it, not duplicate it.
	err = SetWeeklyAvailability(dbh, 1, []models.SellerAvailability{
		{DayOfWeek: models.Monday, StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
	})
	require.NoError(t, err)

	rows, err := GetWeeklyAvailability(dbh, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, models.Monday, rows[0].DayOfWeek)
	require.Equal(t, "10:00", rows[0].StartTime)
	require.Equal(t, "18:00", rows[0].EndTime)
	require.Equal(t, models.Tuesday, rows[1].DayOfWeek)
	require.Equal(t, "09:00", rows[1].StartTime)
}

func TestSetWeeklyAvailabilityRejectsBadInput(t *testing.T) {
	dbh := openTestDB(t)

	err := SetWeeklyAvailability(dbh, 1, []models.SellerAvailability{
		{DayOfWeek: models.Monday, StartTime: "9am", EndTime: "17:00"},
	})
	require.Error(t, err)

	err = SetWeeklyAvailability(dbh, 1, []models.SellerAvailability{
		{DayOfWeek: models.Monday, StartTime: "17:00", EndTime: "09:00"},
	})
	require.ErrorIs(t, err, ErrInvalidWindow)

	err = SetWeeklyAvailability(dbh, 1, []models.SellerAvailability{
		{DayOfWeek: 9, StartTime: "09:00", EndTime: "17:00"},
	})
	require.Error(t, err)

	// A failed batch leaves nothing behind.
	rows, err := GetWeeklyAvailability(dbh, 1)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCreateTimeOffRejectsOverlap(t *testing.T) {
	dbh := openTestDB(t)

	_, err := CreateTimeOff(dbh, 1, monday, monday.AddDate(0, 0, 4), "vacation")
	require.NoError(t, err)

	_, err = CreateTimeOff(dbh, 1, monday.AddDate(0, 0, 2), monday.AddDate(0, 0, 6), "overlap")
	require.ErrorIs(t, err, ErrTimeOffOverlap)

	// Another seller's dates are independent.
	_, err = CreateTimeOff(dbh, 2, monday, monday.AddDate(0, 0, 4), "other shop")
	require.NoError(t, err)
}

func TestCreateTimeOffRejectsBookedRange(t *testing.T) {
	dbh := openTestDB(t)
	seedAppointment(t, dbh, 1, monday.Add(10*time.Hour), monday.Add(11*time.Hour), models.StatusConfirmed)

	_, err := CreateTimeOff(dbh, 1, monday, monday.AddDate(0, 0, 2), "vacation")
	require.ErrorIs(t, err, ErrTimeOffBooked)

	// Cancelled bookings release their window.
	require.NoError(t, dbh.Model(&models.Appointment{}).
		Where("seller_id = ?", 1).
		Update("status", models.StatusCancelled).Error)
	_, err = CreateTimeOff(dbh, 1, monday, monday.AddDate(0, 0, 2), "vacation")
	require.NoError(t, err)
}

func TestCreateTimeOffRejectsInvertedRange(t *testing.T) {
	dbh := openTestDB(t)
	_, err := CreateTimeOff(dbh, 1, monday.AddDate(0, 0, 3), monday, "backwards")
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCancelTimeOff(t *testing.T) {
	dbh := openTestDB(t)

	off, err := CreateTimeOff(dbh, 1, monday, monday.AddDate(0, 0, 2), "vacation")
	require.NoError(t, err)

	// Wrong seller cannot cancel it.
	require.ErrorIs(t, CancelTimeOff(dbh, 2, off.ID), gorm.ErrRecordNotFound)

	require.NoError(t, CancelTimeOff(dbh, 1, off.ID))
	active, err := ListTimeOff(dbh, 1)
	require.NoError(t, err)
	require.Empty(t, active)

	// The freed range can be taken again.
	_, err = CreateTimeOff(dbh, 1, monday, monday.AddDate(0, 0, 2), "again")
	require.NoError(t, err)
}
