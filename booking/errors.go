package booking

import (
	"errors"
	"fmt"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

var (
	ErrServiceInactive   = errors.New("service is not active")
	ErrSellerNotApproved = errors.New("seller is not approved")
	ErrDurationMismatch  = errors.New("appointment window must match the service duration exactly")
	ErrSlotConflict      = errors.New("time slot conflicts with an existing appointment")
	ErrOutsideSchedule   = errors.New("time slot is outside the seller's working hours")
	ErrPastStart         = errors.New("appointment cannot start in the past")
	ErrNotReschedulable  = errors.New("only pending or confirmed appointments can be rescheduled")
)

// InvalidTransitionError names both states of a rejected status change.
type InvalidTransitionError struct {
	From models.AppointmentStatus
	To   models.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
