package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating        float64 `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment       string  `json:"comment"`
	SellerID      uint    `json:"seller_id" gorm:"index"`
	Seller        Seller  `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	BuyerID       uint    `json:"buyer_id"`
	Buyer         User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	AppointmentID uint    `json:"appointment_id" gorm:"uniqueIndex"` // one review per completed appointment
}

// BeforeCreate clamps the rating into the 1.0-5.0 band.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}
