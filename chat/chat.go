package chat

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/logger"
	"github.com/theuzairlab/WrenchEX-Backend/models"
)

var (
	ErrNotParticipant = errors.New("not a participant of this conversation")
	ErrOwnProduct     = errors.New("cannot open a chat on your own product")
	ErrInvalidMessage = errors.New("invalid message")
)

// Notifier pushes chat events to connected clients. Delivery is best effort:
// persistence never waits on it and never rolls back because of it.
type Notifier interface {
	Publish(chatID uint, event string, payload interface{}) error
}

var notifier Notifier

// SetNotifier wires the realtime transport. Without one, events are dropped.
func SetNotifier(n Notifier) {
	notifier = n
}

func notify(chatID uint, event string, payload interface{}) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(chatID, event, payload); err != nil {
		logger.L().Warn("chat notification dropped",
			zap.Uint("chat_id", chatID),
			zap.String("event", event),
			zap.Error(err))
	}
}

// OpenThread finds or creates the one conversation for (product, buyer).
// The seller side is resolved from the product and keyed by the Seller id.
func OpenThread(dbh *gorm.DB, productID, buyerID uint) (*models.ProductChat, error) {
	var product models.Product
	if err := dbh.Preload("Seller").First(&product, productID).Error; err != nil {
		return nil, err
	}
	if product.Seller.UserID == buyerID {
		return nil, ErrOwnProduct
	}

	var thread models.ProductChat
	err := dbh.Where("product_id = ? AND buyer_id = ?", productID, buyerID).First(&thread).Error
	if err == nil {
		return &thread, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	thread = models.ProductChat{
		ProductID: productID,
		BuyerID:   buyerID,
		SellerID:  product.SellerID,
	}
	if err := dbh.Create(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// IsParticipant reports whether the user is the thread's buyer or the user
// behind its seller.
func IsParticipant(dbh *gorm.DB, thread *models.ProductChat, userID uint) (bool, error) {
	if thread.BuyerID == userID {
		return true, nil
	}
	var seller models.Seller
	if err := dbh.First(&seller, thread.SellerID).Error; err != nil {
		return false, err
	}
	return seller.UserID == userID, nil
}

// SendMessage appends an ordered message to the thread and then notifies the
// realtime layer. The write commits regardless of notification outcome.
func SendMessage(dbh *gorm.DB, threadID, senderID uint, msgType models.MessageType, body string, offerPrice *float64) (*models.ProductMessage, error) {
	if !msgType.Valid() {
		return nil, ErrInvalidMessage
	}
	if msgType == models.MessagePriceOffer && (offerPrice == nil || *offerPrice <= 0) {
		return nil, ErrInvalidMessage
	}
	if msgType != models.MessagePriceOffer && body == "" {
		return nil, ErrInvalidMessage
	}

	var thread models.ProductChat
	if err := dbh.First(&thread, threadID).Error; err != nil {
		return nil, err
	}
	ok, err := IsParticipant(dbh, &thread, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	message := models.ProductMessage{
		ChatID:     threadID,
		SenderID:   senderID,
		Type:       msgType,
		Body:       body,
		OfferPrice: offerPrice,
	}
	if err := dbh.Create(&message).Error; err != nil {
		return nil, err
	}

	notify(threadID, "message", message)
	return &message, nil
}

// MarkRead flips the read flag on every counterpart message in the thread.
func MarkRead(dbh *gorm.DB, threadID, readerID uint) error {
	var thread models.ProductChat
	if err := dbh.First(&thread, threadID).Error; err != nil {
		return err
	}
	ok, err := IsParticipant(dbh, &thread, readerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotParticipant
	}

	err = dbh.Model(&models.ProductMessage{}).
		Where("chat_id = ? AND sender_id != ? AND is_read = ?", threadID, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return err
	}

	notify(threadID, "read", map[string]uint{"reader_id": readerID})
	return nil
}

// ListMessages returns the thread's messages in send order.
func ListMessages(dbh *gorm.DB, threadID, userID uint) ([]models.ProductMessage, error) {
	var thread models.ProductChat
	if err := dbh.First(&thread, threadID).Error; err != nil {
		return nil, err
	}
	ok, err := IsParticipant(dbh, &thread, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	var messages []models.ProductMessage
	err = dbh.Where("chat_id = ?", threadID).Order("created_at asc, id asc").Find(&messages).Error
	return messages, err
}

// SetPresence records seller online state, best effort. Lost presence on
// restart is acceptable; the row only mirrors the hub.
func SetPresence(dbh *gorm.DB, sellerID uint, online bool) {
	now := time.Now()
	updates := map[string]interface{}{"is_online": online}
	if !online {
		updates["last_seen_at"] = &now
	}

	res := dbh.Model(&models.SellerChatSettings{}).
		Where("seller_id = ?", sellerID).
		Updates(updates)
	if res.Error == nil && res.RowsAffected == 0 {
		settings := models.SellerChatSettings{SellerID: sellerID, IsOnline: online}
		if !online {
			settings.LastSeenAt = &now
		}
		res = dbh.Create(&settings)
	}
	if res.Error != nil {
		logger.L().Warn("presence update failed",
			zap.Uint("seller_id", sellerID),
			zap.Error(res.Error))
	}
}
