package models

import (
	"time"

	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	SellerID        uint     `json:"seller_id" gorm:"index"`
	Seller          Seller   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	CategoryID      uint     `json:"category_id"`
	Category        Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"duration_minutes"`
	IsMobile        bool     `json:"is_mobile"` // performed at the buyer's location rather than in shop
	IsActive        bool     `json:"is_active" gorm:"default:true"`
}

// Duration returns the configured service length. Every appointment window
// for this service must span exactly this duration.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
