package models

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	SellerID    uint     `json:"seller_id" gorm:"index"`
	Seller      Seller   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	CategoryID  uint     `json:"category_id"`
	Category    Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	IsActive    bool     `json:"is_active" gorm:"default:true"`
}
