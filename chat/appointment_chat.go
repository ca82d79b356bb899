package chat

import (
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// appointmentParticipant reports whether the user is the booking's buyer or
// the user behind its seller.
func appointmentParticipant(dbh *gorm.DB, appointment *models.Appointment, userID uint) (bool, error) {
	if appointment.BuyerID == userID {
		return true, nil
	}
	var seller models.Seller
	if err := dbh.First(&seller, appointment.SellerID).Error; err != nil {
		return false, err
	}
	return seller.UserID == userID, nil
}

// SendAppointmentMessage appends to the appointment-scoped conversation,
// which is separate from product chat.
func SendAppointmentMessage(dbh *gorm.DB, appointmentID, senderID uint, body string) (*models.AppointmentMessage, error) {
	if body == "" {
		return nil, ErrInvalidMessage
	}
	var appointment models.Appointment
	if err := dbh.First(&appointment, appointmentID).Error; err != nil {
		return nil, err
	}
	ok, err := appointmentParticipant(dbh, &appointment, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	message := models.AppointmentMessage{
		AppointmentID: appointmentID,
		SenderID:      senderID,
		Body:          body,
	}
	if err := dbh.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func ListAppointmentMessages(dbh *gorm.DB, appointmentID, userID uint) ([]models.AppointmentMessage, error) {
	var appointment models.Appointment
	if err := dbh.First(&appointment, appointmentID).Error; err != nil {
		return nil, err
	}
	ok, err := appointmentParticipant(dbh, &appointment, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	var messages []models.AppointmentMessage
	err = dbh.Where("appointment_id = ?", appointmentID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	return messages, err
}
