package booking

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
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
	// Each connection in the pool would otherwise get its own in-memory
	// database, which breaks tests that run goroutines against one handle.
	sqlDB, err := dbh.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, dbh.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.Service{},
		&models.SellerAvailability{},
		&models.SellerTimeOff{},
		&models.Appointment{},
		&models.AppointmentStatusHistory{},
	))
	return dbh
}

// seedService creates an approved seller with a one hour mobile oil change.
// Without any availability rows the schedule is treated as fully open, so
// tests that need a closed window seed one explicitly.
func seedService(t *testing.T, dbh *gorm.DB) *models.Service {
	t.Helper()
	seller := models.Seller{UserID: 2, ShopName: "AutoFix " + t.Name(), IsApproved: true}
	require.NoError(t, dbh.Create(&seller).Error)
	service := models.Service{
		SellerID:        seller.ID,
		Title:           "Oil change",
		Price:           49.99,
		DurationMinutes: 60,
		IsMobile:        true,
		IsActive:        true,
	}
	require.NoError(t, dbh.Create(&service).Error)
	return &service
}

// tomorrowAt gives a future, deterministic-enough window start.
func tomorrowAt(hour int) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
}

func TestCreatePersistsAppointmentWithHistory(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Address:   "12 Workshop Lane",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, created.Status)
	require.Equal(t, service.Price, created.TotalAmount)
	require.True(t, strings.HasPrefix(created.Number, "WRX-"))

	var history []models.AppointmentStatusHistory
	require.NoError(t, dbh.Where("appointment_id = ?", created.ID).Find(&history).Error)
	require.Len(t, history, 1)
	require.Equal(t, models.StatusPending, history[0].Status)
	require.Equal(t, uint(1), history[0].ChangedByID)
}

func TestCreateRejectsDurationMismatch(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
	})
	require.ErrorIs(t, err, ErrDurationMismatch)
}

func TestCreateRejectsPastStart(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := time.Now().Add(-2 * time.Hour)
	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrPastStart)
}

func TestCreateRejectsInactiveService(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)
	require.NoError(t, dbh.Model(service).Update("is_active", false).Error)

	start := tomorrowAt(10)
	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrServiceInactive)
}

func TestCreateRejectsUnapprovedSeller(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)
	require.NoError(t, dbh.Model(&models.Seller{}).
		Where("id = ?", service.SellerID).
		Update("is_approved", false).Error)

	start := tomorrowAt(10)
	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrSellerNotApproved)
}

func TestCreateRejectsConflict(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	_, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	// Overlap by half an hour.
	_, err = Create(dbh, CreateInput{
		BuyerID: 3, ServiceID: service.ID,
		StartTime: start.Add(30 * time.Minute), EndTime: start.Add(90 * time.Minute),
	})
	require.ErrorIs(t, err, ErrSlotConflict)

	// Back to back is fine: windows are half-open.
	_, err = Create(dbh, CreateInput{
		BuyerID: 3, ServiceID: service.ID,
		StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour),
	})
	require.NoError(t, err)
}

func TestCreateConcurrentSameWindow(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		buyerID := uint(i + 1)
		go func() {
			_, err := Create(dbh, CreateInput{
				BuyerID: buyerID, ServiceID: service.ID,
				StartTime: start, EndTime: start.Add(time.Hour),
			})
			errs <- err
		}()
	}

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, conflicts)

	var count int64
	require.NoError(t, dbh.Model(&models.Appointment{}).
		Where("seller_id = ?", service.SellerID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateRejectsOutsideSchedule(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(18)
	require.NoError(t, dbh.Create(&models.SellerAvailability{
		SellerID:    service.SellerID,
		DayOfWeek:   models.DayOfWeek(start.Weekday()),
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
	}).Error)

	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestCreateRejectsTimeOff(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	require.NoError(t, dbh.Create(&models.SellerTimeOff{
		SellerID:  service.SellerID,
		StartDate: start,
		EndDate:   start,
		IsActive:  true,
	}).Error)

	_, err := Create(dbh, CreateInput{
		BuyerID:   1,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	updated, err := UpdateStatus(dbh, created.ID, models.StatusConfirmed, 2, "see you then")
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, updated.Status)

	var history []models.AppointmentStatusHistory
	require.NoError(t, dbh.Where("appointment_id = ?", created.ID).Order("id asc").Find(&history).Error)
	require.Len(t, history, 2)
	require.Equal(t, models.StatusConfirmed, history[1].Status)
	require.Equal(t, "see you then", history[1].Notes)
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	// pending cannot jump straight to completed.
	_, err = UpdateStatus(dbh, created.ID, models.StatusCompleted, 2, "")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.StatusPending, invalid.From)
	require.Equal(t, models.StatusCompleted, invalid.To)

	// The rejected attempt must not leave a history row.
	var count int64
	require.NoError(t, dbh.Model(&models.AppointmentStatusHistory{}).
		Where("appointment_id = ?", created.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpdateStatusConcurrentConfirmsOnce(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := UpdateStatus(dbh, created.ID, models.StatusConfirmed, 2, ""); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, successes)

	var confirmed int64
	require.NoError(t, dbh.Model(&models.AppointmentStatusHistory{}).
		Where("appointment_id = ? AND status = ?", created.ID, models.StatusConfirmed).
		Count(&confirmed).Error)
	require.EqualValues(t, 1, confirmed)

	var got models.Appointment
	require.NoError(t, dbh.First(&got, created.ID).Error)
	require.Equal(t, models.StatusConfirmed, got.Status)
}

func TestStatusTerminalStatesLock(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = Cancel(dbh, created.ID, 1, "changed my mind")
	require.NoError(t, err)

	_, err = UpdateStatus(dbh, created.ID, models.StatusConfirmed, 2, "")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestCancelReleasesWindow(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = Cancel(dbh, created.ID, 1, "")
	require.NoError(t, err)

	// The slot opens up again for someone else.
	_, err = Create(dbh, CreateInput{
		BuyerID: 3, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
}

func TestReschedule(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	// Moving into a window that overlaps itself must succeed: the booking
	// being moved never conflicts with its own old window.
	moved, err := Reschedule(dbh, created.ID, start.Add(30*time.Minute), 2)
	require.NoError(t, err)
	require.Equal(t, start.Add(30*time.Minute), moved.StartTime)
	require.Equal(t, start.Add(90*time.Minute), moved.EndTime)

	var history []models.AppointmentStatusHistory
	require.NoError(t, dbh.Where("appointment_id = ?", created.ID).Order("id asc").Find(&history).Error)
	require.Len(t, history, 2)
	require.Equal(t, "rescheduled", history[1].Notes)
}

func TestRescheduleRejectsOccupiedWindow(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	first, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = Create(dbh, CreateInput{
		BuyerID: 3, ServiceID: service.ID,
		StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	_, err = Reschedule(dbh, first.ID, start.Add(2*time.Hour+30*time.Minute), 2)
	require.ErrorIs(t, err, ErrSlotConflict)
}

func TestRescheduleRejectsFinishedBooking(t *testing.T) {
	dbh := openTestDB(t)
	service := seedService(t, dbh)

	start := tomorrowAt(10)
	created, err := Create(dbh, CreateInput{
		BuyerID: 1, ServiceID: service.ID,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = Cancel(dbh, created.ID, 1, "")
	require.NoError(t, err)

	_, err = Reschedule(dbh, created.ID, start.Add(3*time.Hour), 2)
	require.ErrorIs(t, err, ErrNotReschedulable)
}
