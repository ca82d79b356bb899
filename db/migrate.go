package db

import (
	"fmt"
	"log"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// Migrate runs AutoMigrate on the pool opened by Init.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.SellerChatSettings{},
		&models.Category{},
		&models.Product{},
		&models.Service{},
		&models.SellerAvailability{},
		&models.SellerTimeOff{},
		&models.Appointment{},
		&models.AppointmentStatusHistory{},
		&models.AppointmentMessage{},
		&models.ProductChat{},
		&models.ProductMessage{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
