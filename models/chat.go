package models

import (
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageText       MessageType = "text"
	MessageImage      MessageType = "image"
	MessagePriceOffer MessageType = "price_offer"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessagePriceOffer:
		return true
	}
	return false
}

// ProductChat is one conversation per (product, buyer) pair. The seller side
// is keyed by the Seller id, matching every other subsystem.
type ProductChat struct {
	gorm.Model
	ProductID uint    `json:"product_id" gorm:"index:idx_product_buyer,unique"`
	Product   Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	BuyerID   uint    `json:"buyer_id" gorm:"index:idx_product_buyer,unique"`
	Buyer     User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	SellerID  uint    `json:"seller_id" gorm:"index"`
	Seller    Seller  `json:"seller,omitempty" gorm:"foreignKey:SellerID"`

	Messages []ProductMessage `json:"messages,omitempty" gorm:"foreignKey:ChatID"`
}

type ProductMessage struct {
	gorm.Model
	ChatID     uint        `json:"chat_id" gorm:"index"`
	SenderID   uint        `json:"sender_id"`
	Sender     User        `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Type       MessageType `json:"type" gorm:"default:text"`
	Body       string      `json:"body"`
	OfferPrice *float64    `json:"offer_price"` // set only for price_offer messages
	IsRead     bool        `json:"is_read" gorm:"default:false"`
}
