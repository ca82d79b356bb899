package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/logger"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// StartCronJobs initializes and starts the scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// The five minute cadence paired with a five minute reminder window means
	// each appointment lands in exactly one run.
	_, err := c.AddFunc("*/5 * * * *", sendAppointmentReminders)
	if err != nil {
		logger.L().Fatal("failed to register reminder job", zap.Error(err))
	}
	c.Start()
	logger.L().Info("cron scheduler started")
}

// sendAppointmentReminders mails buyers whose confirmed appointment starts in
// about an hour.
func sendAppointmentReminders() {
	now := time.Now()
	startWindow := now.Add(60 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := db.DB.Preload("Buyer").Preload("Service").Preload("Seller").
		Where("status = ? AND start_time >= ? AND start_time < ?",
			models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		logger.L().Error("fetching appointments for reminders", zap.Error(err))
		return
	}

	for _, appointment := range appointments {
		sendReminderEmail(&appointment)
		logger.L().Info("sent appointment reminder",
			zap.Uint("appointment_id", appointment.ID),
			zap.String("number", appointment.Number))
	}
}

func sendReminderEmail(appointment *models.Appointment) {
	subject := fmt.Sprintf("Reminder: appointment %s starts in one hour", appointment.Number)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Shop:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
			<li><strong>End:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, please do so as soon as possible.</p>
	`, appointment.Buyer.Name, appointment.Service.Title, appointment.Seller.ShopName,
		appointment.StartTime.Format("2006-01-02 15:04"),
		appointment.EndTime.Format("2006-01-02 15:04"))

	utils.NotifyEmail(appointment.Buyer.Email, subject, body)
}
