package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// ConflictingStatuses are the states in which an appointment still occupies
// its time window. Completed and cancelled bookings never conflict.
var ConflictingStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress}

// transitions is the forward-only state table. Completed and cancelled are
// terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	gorm.Model
	Number      string            `json:"number" gorm:"unique"`
	BuyerID     uint              `json:"buyer_id" gorm:"index"`
	Buyer       User              `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	SellerID    uint              `json:"seller_id" gorm:"index"`
	Seller      Seller            `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	ServiceID   uint              `json:"service_id"`
	Service     Service           `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      AppointmentStatus `json:"status" gorm:"default:pending"`
	TotalAmount float64           `json:"total_amount"` // snapshot of the service price at booking time
	Address     string            `json:"address"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	Notes       string            `json:"notes"`

	StatusHistory []AppointmentStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:AppointmentID"`
	Messages      []AppointmentMessage       `json:"messages,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// AppointmentStatusHistory is the append-only audit trail. One row per
// transition, written in the same transaction as the status change.
type AppointmentStatusHistory struct {
	gorm.Model
	AppointmentID uint              `json:"appointment_id" gorm:"index"`
	Status        AppointmentStatus `json:"status"`
	ChangedByID   uint              `json:"changed_by_id"`
	Notes         string            `json:"notes"`
}

// AppointmentMessage is the appointment-scoped chat between the booking's
// buyer and seller, distinct from product chat.
type AppointmentMessage struct {
	gorm.Model
	AppointmentID uint   `json:"appointment_id" gorm:"index"`
	SenderID      uint   `json:"sender_id"`
	Sender        User   `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Body          string `json:"body"`
}
