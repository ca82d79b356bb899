package buyer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/chat"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

func chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, chat.ErrNotParticipant):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, chat.ErrOwnProduct), errors.Is(err, chat.ErrInvalidMessage):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		return utils.Internal(c)
	}
}

// OpenChat finds or creates the conversation for a product.
func OpenChat(c *fiber.Ctx) error {
	var input struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	thread, err := chat.OpenThread(db.DB, input.ProductID, middleware.UserID(c))
	if err != nil {
		return chatError(c, err)
	}
	return utils.Created(c, thread)
}

// MyChats lists the caller's conversations. Buyers see threads they opened;
// sellers see threads on their products.
func MyChats(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	query := db.DB.Preload("Product").Preload("Buyer").Preload("Seller")
	if middleware.Role(c) == models.RoleSeller {
		var seller models.Seller
		if err := db.DB.Where("user_id = ?", userID).First(&seller).Error; err != nil {
			return utils.Error(c, fiber.StatusForbidden, "Seller profile not found")
		}
		query = query.Where("seller_id = ?", seller.ID)
	} else {
		query = query.Where("buyer_id = ?", userID)
	}

	var threads []models.ProductChat
	if err := query.Order("updated_at desc").Find(&threads).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, threads)
}

func GetChatMessages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid chat ID")
	}

	messages, err := chat.ListMessages(db.DB, uint(id), middleware.UserID(c))
	if err != nil {
		return chatError(c, err)
	}
	return utils.Success(c, messages)
}

func SendChatMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid chat ID")
	}

	var input struct {
		Type       string   `json:"type"`
		Body       string   `json:"body"`
		OfferPrice *float64 `json:"offer_price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Type == "" {
		input.Type = string(models.MessageText)
	}

	message, err := chat.SendMessage(db.DB, uint(id), middleware.UserID(c),
		models.MessageType(input.Type), input.Body, input.OfferPrice)
	if err != nil {
		return chatError(c, err)
	}
	return utils.Created(c, message)
}

func MarkChatRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid chat ID")
	}

	if err := chat.MarkRead(db.DB, uint(id), middleware.UserID(c)); err != nil {
		return chatError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "Messages marked as read"})
}
