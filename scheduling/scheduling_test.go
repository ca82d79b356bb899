package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbh, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbh.AutoMigrate(
		&models.Seller{},
		&models.SellerAvailability{},
		&models.SellerTimeOff{},
		&models.Appointment{},
	))
	return dbh
}

// monday is a fixed Monday far enough out that nothing in these tests can
// collide with the wall clock.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func seedWindow(t *testing.T, dbh *gorm.DB, sellerID uint, day models.DayOfWeek, start, end string) {
	t.Helper()
	require.NoError(t, dbh.Create(&models.SellerAvailability{
		SellerID:    sellerID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}).Error)
}

func seedAppointment(t *testing.T, dbh *gorm.DB, sellerID uint, start, end time.Time, status models.AppointmentStatus) {
	t.Helper()
	require.NoError(t, dbh.Create(&models.Appointment{
		Number:    "WRX-TEST-" + start.Format("150405"),
		BuyerID:   1,
		SellerID:  sellerID,
		ServiceID: 1,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}).Error)
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"touching end to start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start to end", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(13, 0), at(14, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			require.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestRoundUpToStep(t *testing.T) {
	onBoundary := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	require.Equal(t, onBoundary, roundUpToStep(onBoundary))

	between := time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	require.Equal(t, onBoundary, roundUpToStep(between))

	justAfter := time.Date(2026, 3, 2, 9, 30, 1, 0, time.UTC)
	require.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), roundUpToStep(justAfter))
}

func TestDaySlotsGrid(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")

	slots, err := DaySlots(dbh, 1, time.Hour, monday)
	require.NoError(t, err)

	// 60-minute probes on a 30-minute stride: 09:00 through 11:00 inclusive.
	require.Len(t, slots, 5)
	require.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
	require.Equal(t, monday.Add(11*time.Hour), slots[4].Start)
	require.Equal(t, monday.Add(12*time.Hour), slots[4].End)
	for _, s := range slots {
		require.True(t, s.Available)
		require.Equal(t, time.Hour, s.End.Sub(s.Start))
	}
}

func TestDaySlotsFlagsConflicts(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")
	seedAppointment(t, dbh, 1, monday.Add(10*time.Hour), monday.Add(11*time.Hour), models.StatusConfirmed)

	slots, err := DaySlots(dbh, 1, time.Hour, monday)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	// Half-open windows: a probe ending exactly at 10:00 or starting exactly
	// at 11:00 does not collide with the 10:00-11:00 booking.
	want := map[int]bool{0: true, 1: false, 2: false, 3: false, 4: true}
	for i, s := range slots {
		require.Equal(t, want[i], s.Available, "slot starting %s", s.Start.Format("15:04"))
	}
}

func TestDaySlotsIgnoresReleasedStatuses(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")
	seedAppointment(t, dbh, 1, monday.Add(10*time.Hour), monday.Add(11*time.Hour), models.StatusCancelled)
	seedAppointment(t, dbh, 1, monday.Add(9*time.Hour), monday.Add(10*time.Hour), models.StatusCompleted)

	slots, err := DaySlots(dbh, 1, time.Hour, monday)
	require.NoError(t, err)
	for _, s := range slots {
		require.True(t, s.Available, "slot starting %s", s.Start.Format("15:04"))
	}
}

func TestDaySlotsUnconfiguredDayIsEmpty(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")

	tuesday := monday.AddDate(0, 0, 1)
	slots, err := DaySlots(dbh, 1, time.Hour, tuesday)
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestDaySlotsTimeOffIsEmpty(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")
	require.NoError(t, dbh.Create(&models.SellerTimeOff{
		SellerID:  1,
		StartDate: monday,
		EndDate:   monday,
		IsActive:  true,
	}).Error)

	slots, err := DaySlots(dbh, 1, time.Hour, monday)
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestDaySlotsDurationLongerThanWindow(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "10:00")

	slots, err := DaySlots(dbh, 1, 2*time.Hour, monday)
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestNextAvailableSlotAdvancesPastNewBooking(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")

	first, err := NextAvailableSlot(dbh, 1, time.Hour, monday, 7)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, monday.Add(9*time.Hour), first.Start)
	require.Equal(t, monday.Add(10*time.Hour), first.End)

	// Take the offered window and search again: 09:30 still overlaps the
	// fresh booking, so the next answer is 10:00.
	seedAppointment(t, dbh, 1, first.Start, first.End, models.StatusPending)
	second, err := NextAvailableSlot(dbh, 1, time.Hour, monday, 7)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.Equal(t, monday.Add(10*time.Hour), second.Start)
	require.Equal(t, monday.Add(11*time.Hour), second.End)
}

func TestNextAvailableSlotSkipsBookedWindows(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")
	seedAppointment(t, dbh, 1, monday.Add(9*time.Hour+30*time.Minute), monday.Add(10*time.Hour+30*time.Minute), models.StatusPending)

	slot, err := NextAvailableSlot(dbh, 1, time.Hour, monday.Add(8*time.Hour), 7)
	require.NoError(t, err)
	require.NotNil(t, slot)
	require.Equal(t, monday.Add(10*time.Hour+30*time.Minute), slot.Start)
	require.Equal(t, monday.Add(11*time.Hour+30*time.Minute), slot.End)
}

func TestNextAvailableSlotRoundsUpMidDay(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")

	// 09:10 is inside the window but between stride boundaries; the first
	// candidate must be 09:30, never 09:00 or 09:10 itself.
	slot, err := NextAvailableSlot(dbh, 1, time.Hour, monday.Add(9*time.Hour+10*time.Minute), 7)
	require.NoError(t, err)
	require.NotNil(t, slot)
	require.Equal(t, monday.Add(9*time.Hour+30*time.Minute), slot.Start)
}

func TestNextAvailableSlotRollsToNextConfiguredDay(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")
	seedWindow(t, dbh, 1, models.Wednesday, "14:00", "16:00")

	// Asking from Monday afternoon, after its window closed: Tuesday has no
	// row so it is skipped entirely, landing on Wednesday's opening.
	slot, err := NextAvailableSlot(dbh, 1, time.Hour, monday.Add(13*time.Hour), 7)
	require.NoError(t, err)
	require.NotNil(t, slot)
	wednesday := monday.AddDate(0, 0, 2)
	require.Equal(t, wednesday.Add(14*time.Hour), slot.Start)
}

func TestNextAvailableSlotEmptyHorizon(t *testing.T) {
	dbh := openTestDB(t)

	slot, err := NextAvailableSlot(dbh, 1, time.Hour, monday, 14)
	require.NoError(t, err)
	require.Nil(t, slot)
}

func TestUnconfiguredDayAsymmetry(t *testing.T) {
	dbh := openTestDB(t)

	// A seller with no schedule at all: the slot grid is empty, yet direct
	// booking checks treat the day as open.
	slots, err := DaySlots(dbh, 1, time.Hour, monday)
	require.NoError(t, err)
	require.Empty(t, slots)

	open, err := WithinWorkingWindow(dbh, 1, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	require.NoError(t, err)
	require.True(t, open)
}

func TestWithinWorkingWindow(t *testing.T) {
	dbh := openTestDB(t)
	seedWindow(t, dbh, 1, models.Monday, "09:00", "12:00")

	inside, err := WithinWorkingWindow(dbh, 1, monday.Add(9*time.Hour), monday.Add(10*time.Hour))
	require.NoError(t, err)
	require.True(t, inside)

	// Ends past the window.
	spill, err := WithinWorkingWindow(dbh, 1, monday.Add(11*time.Hour+30*time.Minute), monday.Add(12*time.Hour+30*time.Minute))
	require.NoError(t, err)
	require.False(t, spill)

	// Marked unavailable beats the stored times.
	require.NoError(t, dbh.Model(&models.SellerAvailability{}).
		Where("seller_id = ? AND day_of_week = ?", 1, models.Monday).
		Update("is_available", false).Error)
	closed, err := WithinWorkingWindow(dbh, 1, monday.Add(9*time.Hour), monday.Add(10*time.Hour))
	require.NoError(t, err)
	require.False(t, closed)
}
