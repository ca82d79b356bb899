package seller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// GetProfile returns the authenticated seller's shop profile, including the
// approval flag.
func GetProfile(c *fiber.Ctx) error {
	var seller models.Seller
	if err := db.DB.Preload("User").Where("user_id = ?", middleware.UserID(c)).First(&seller).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Seller profile not found")
	}
	return utils.Success(c, seller)
}

type updateProfileInput struct {
	ShopName        *string  `json:"shop_name"`
	ShopDescription *string  `json:"shop_description"`
	ShopAddress     *string  `json:"shop_address"`
	City            *string  `json:"city"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// UpdateProfile patches shop fields. Approval is admin-only and cannot be
// touched here.
func UpdateProfile(c *fiber.Ctx) error {
	var seller models.Seller
	if err := db.DB.Where("user_id = ?", middleware.UserID(c)).First(&seller).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Seller profile not found")
	}

	input := new(updateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.ShopName != nil {
		var taken int64
		db.DB.Model(&models.Seller{}).
			Where("shop_name = ? AND id != ?", *input.ShopName, seller.ID).
			Count(&taken)
		if taken > 0 {
			return utils.Error(c, fiber.StatusConflict, "Shop name is already taken")
		}
		updates["shop_name"] = *input.ShopName
	}
	if input.ShopDescription != nil {
		updates["shop_description"] = *input.ShopDescription
	}
	if input.ShopAddress != nil {
		updates["shop_address"] = *input.ShopAddress
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&seller).Updates(updates).Error; err != nil {
			return utils.Internal(c)
		}
	}
	return utils.Success(c, seller)
}

// UploadLogo stores the shop logo through the image host and saves the URL.
func UploadLogo(c *fiber.Ctx) error {
	var seller models.Seller
	if err := db.DB.Where("user_id = ?", middleware.UserID(c)).First(&seller).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Seller profile not found")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "logo file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.Internal(c)
	}
	defer file.Close()

	url, err := utils.UploadImage(file, "wrenchex/logos")
	if err != nil {
		return utils.Internal(c)
	}

	if err := db.DB.Model(&seller).Update("logo_url", url).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, fiber.Map{"logo_url": url})
}

// GetChatSettings returns chat preferences and presence.
func GetChatSettings(c *fiber.Ctx) error {
	sellerID := middleware.SellerID(c)

	var settings models.SellerChatSettings
	if err := db.DB.Where("seller_id = ?", sellerID).First(&settings).Error; err != nil {
		settings = models.SellerChatSettings{SellerID: sellerID, NotificationsEnabled: true}
	}
	return utils.Success(c, settings)
}

// UpdateChatSettings patches chat preferences.
func UpdateChatSettings(c *fiber.Ctx) error {
	sellerID := middleware.SellerID(c)

	var input struct {
		AutoReply            *string `json:"auto_reply"`
		NotificationsEnabled *bool   `json:"notifications_enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var settings models.SellerChatSettings
	err := db.DB.Where("seller_id = ?", sellerID).First(&settings).Error
	if err != nil {
		settings = models.SellerChatSettings{SellerID: sellerID, NotificationsEnabled: true}
		if err := db.DB.Create(&settings).Error; err != nil {
			return utils.Internal(c)
		}
	}

	updates := map[string]interface{}{}
	if input.AutoReply != nil {
		updates["auto_reply"] = *input.AutoReply
	}
	if input.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *input.NotificationsEnabled
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&settings).Updates(updates).Error; err != nil {
			return utils.Internal(c)
		}
	}
	return utils.Success(c, settings)
}
