package models

import (
	"time"

	"gorm.io/gorm"
)

// Seller extends a User with shop identity. Products, services and
// appointments hang off the Seller id, never the underlying User id.
type Seller struct {
	gorm.Model
	UserID          uint    `json:"user_id" gorm:"uniqueIndex"`
	User            User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ShopName        string  `json:"shop_name" gorm:"unique"`
	ShopDescription string  `json:"shop_description"`
	ShopAddress     string  `json:"shop_address"`
	City            string  `json:"city"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	LogoURL         string  `json:"logo_url"`
	IsApproved      bool    `json:"is_approved" gorm:"default:false"`
	RatingAverage   float64 `json:"rating_average" gorm:"type:decimal(3,2);default:0"`
	RatingCount     int64   `json:"rating_count" gorm:"default:0"`
}

// SellerChatSettings carries per-seller chat preferences plus best-effort
// presence. IsOnline/LastSeenAt are updated by the websocket hub and carry no
// correctness obligation.
type SellerChatSettings struct {
	gorm.Model
	SellerID             uint       `json:"seller_id" gorm:"uniqueIndex"`
	AutoReply            string     `json:"auto_reply"`
	NotificationsEnabled bool       `json:"notifications_enabled" gorm:"default:true"`
	IsOnline             bool       `json:"is_online" gorm:"default:false"`
	LastSeenAt           *time.Time `json:"last_seen_at"`
}
