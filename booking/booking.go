package booking

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/scheduling"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

type CreateInput struct {
	BuyerID   uint
	ServiceID uint
	StartTime time.Time
	EndTime   time.Time
	Address   string
	Latitude  *float64
	Longitude *float64
	Notes     string
}

// lockSeller serializes bookings per seller for the duration of the
// transaction. Two concurrent creates for the same window both pass an
// application-level pre-check; holding the seller row closes that race.
// SQLite (used in tests) has no row locks; its single writer serializes
// transactions anyway.
func lockSeller(tx *gorm.DB, sellerID uint) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var seller models.Seller
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seller, sellerID).Error
}

// Create validates and persists a new pending appointment together with its
// first status-history row. Both writes happen in one transaction; a failure
// leaves neither behind.
func Create(dbh *gorm.DB, in CreateInput) (*models.Appointment, error) {
	var service models.Service
	if err := dbh.Preload("Seller").First(&service, in.ServiceID).Error; err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if !service.Seller.IsApproved {
		return nil, ErrSellerNotApproved
	}
	if in.EndTime.Sub(in.StartTime) != service.Duration() {
		return nil, ErrDurationMismatch
	}
	if in.StartTime.Before(time.Now()) {
		return nil, ErrPastStart
	}

	withinHours, err := scheduling.WithinWorkingWindow(dbh, service.SellerID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if !withinHours {
		return nil, ErrOutsideSchedule
	}

	appointment := models.Appointment{
		Number:      utils.GenerateAppointmentNumber(),
		BuyerID:     in.BuyerID,
		SellerID:    service.SellerID,
		ServiceID:   service.ID,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      models.StatusPending,
		TotalAmount: service.Price,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Notes:       in.Notes,
	}

	err = dbh.Transaction(func(tx *gorm.DB) error {
		if err := lockSeller(tx, service.SellerID); err != nil {
			return err
		}
		// Re-check under the lock so a racing create cannot slip in.
		free, err := scheduling.CheckAvailability(tx, service.SellerID, in.StartTime, in.EndTime, 0)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotConflict
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}
		history := models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			Status:        models.StatusPending,
			ChangedByID:   in.BuyerID,
			Notes:         "created",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// lockAppointment reads the appointment under FOR UPDATE on postgres, so a
// racing status change waits for the lock and then validates against the
// committed state rather than a stale snapshot. SQLite's single writer
// serializes transactions anyway.
func lockAppointment(tx *gorm.DB, id uint, appointment *models.Appointment) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q.First(appointment, id).Error
}

// UpdateStatus advances the appointment along the forward-only state table
// and appends exactly one history row, atomically. The row is read and the
// transition validated inside the transaction, under the row lock, so two
// concurrent updates cannot both pass the table check. Rejected transitions
// return an InvalidTransitionError naming both states.
func UpdateStatus(dbh *gorm.DB, id uint, newStatus models.AppointmentStatus, actorID uint, notes string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := dbh.Transaction(func(tx *gorm.DB) error {
		if err := lockAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if !newStatus.Valid() || !appointment.Status.CanTransitionTo(newStatus) {
			return &InvalidTransitionError{From: appointment.Status, To: newStatus}
		}
		if err := tx.Model(&appointment).Update("status", newStatus).Error; err != nil {
			return err
		}
		history := models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			Status:        newStatus,
			ChangedByID:   actorID,
			Notes:         notes,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	appointment.Status = newStatus
	return &appointment, nil
}

// Cancel is sugar over UpdateStatus with the cancelled target.
func Cancel(dbh *gorm.DB, id uint, actorID uint, reason string) (*models.Appointment, error) {
	return UpdateStatus(dbh, id, models.StatusCancelled, actorID, reason)
}

// Reschedule moves a pending or confirmed appointment to a new start. The
// window keeps the exact service duration and goes through the same conflict
// discipline as Create.
func Reschedule(dbh *gorm.DB, id uint, newStart time.Time, actorID uint) (*models.Appointment, error) {
	if newStart.Before(time.Now()) {
		return nil, ErrPastStart
	}

	var appointment models.Appointment
	var newEnd time.Time
	err := dbh.Transaction(func(tx *gorm.DB) error {
		if err := lockAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if appointment.Status != models.StatusPending && appointment.Status != models.StatusConfirmed {
			return ErrNotReschedulable
		}

		var service models.Service
		if err := tx.First(&service, appointment.ServiceID).Error; err != nil {
			return err
		}
		newEnd = newStart.Add(service.Duration())

		withinHours, err := scheduling.WithinWorkingWindow(tx, appointment.SellerID, newStart, newEnd)
		if err != nil {
			return err
		}
		if !withinHours {
			return ErrOutsideSchedule
		}

		if err := lockSeller(tx, appointment.SellerID); err != nil {
			return err
		}
		free, err := scheduling.CheckAvailability(tx, appointment.SellerID, newStart, newEnd, appointment.ID)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotConflict
		}
		updates := map[string]interface{}{"start_time": newStart, "end_time": newEnd}
		if err := tx.Model(&appointment).Updates(updates).Error; err != nil {
			return err
		}
		history := models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			Status:        appointment.Status,
			ChangedByID:   actorID,
			Notes:         "rescheduled",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	appointment.StartTime = newStart
	appointment.EndTime = newEnd
	return &appointment, nil
}
