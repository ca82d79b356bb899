package seller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

func activeCategory(id uint) bool {
	var category models.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		return false
	}
	return category.IsActive
}

// ListProducts returns the seller's own products, active or not.
func ListProducts(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.Product{}).
		Preload("Category").
		Where("seller_id = ?", middleware.SellerID(c))

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, products, page, limit, total)
}

type productInput struct {
	CategoryID  uint    `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func CreateProduct(c *fiber.Ctx) error {
	input := new(productInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Title == "" || input.Price <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "title and a positive price are required")
	}
	if !activeCategory(input.CategoryID) {
		return utils.Error(c, fiber.StatusBadRequest, "Category not found or inactive")
	}

	product := models.Product{
		SellerID:    middleware.SellerID(c),
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := db.DB.Create(&product).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Created(c, product)
}

func UpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := db.DB.First(&product, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if product.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only update your own products")
	}

	var input struct {
		productInput
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Price > 0 {
		updates["price"] = input.Price
	}
	if input.ImageURL != "" {
		updates["image_url"] = input.ImageURL
	}
	if input.CategoryID != 0 {
		if !activeCategory(input.CategoryID) {
			return utils.Error(c, fiber.StatusBadRequest, "Category not found or inactive")
		}
		updates["category_id"] = input.CategoryID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&product).Updates(updates).Error; err != nil {
			return utils.Internal(c)
		}
	}
	return utils.Success(c, product)
}

func DeleteProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := db.DB.First(&product, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if product.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only delete your own products")
	}
	if err := db.DB.Delete(&product).Error; err != nil {
		return utils.Internal(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadProductImage pushes a product photo to the image host.
func UploadProductImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.Internal(c)
	}
	defer file.Close()

	url, err := utils.UploadImage(file, "wrenchex/products")
	if err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, fiber.Map{"image_url": url})
}

// Services

func ListServices(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.Service{}).
		Preload("Category").
		Where("seller_id = ?", middleware.SellerID(c))

	var total int64
	query.Count(&total)

	var services []models.Service
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&services).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, services, page, limit, total)
}

type serviceInput struct {
	CategoryID      uint    `json:"category_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	IsMobile        bool    `json:"is_mobile"`
}

func CreateService(c *fiber.Ctx) error {
	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Title == "" || input.Price <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "title and a positive price are required")
	}
	if input.DurationMinutes <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "duration_minutes must be positive")
	}
	if !activeCategory(input.CategoryID) {
		return utils.Error(c, fiber.StatusBadRequest, "Category not found or inactive")
	}

	service := models.Service{
		SellerID:        middleware.SellerID(c),
		CategoryID:      input.CategoryID,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		IsMobile:        input.IsMobile,
		IsActive:        true,
	}
	if err := db.DB.Create(&service).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Created(c, service)
}

func UpdateService(c *fiber.Ctx) error {
	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}
	if service.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only update your own services")
	}

	var input struct {
		serviceInput
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Price > 0 {
		updates["price"] = input.Price
	}
	if input.DurationMinutes > 0 {
		updates["duration_minutes"] = input.DurationMinutes
	}
	if input.CategoryID != 0 {
		if !activeCategory(input.CategoryID) {
			return utils.Error(c, fiber.StatusBadRequest, "Category not found or inactive")
		}
		updates["category_id"] = input.CategoryID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&service).Updates(updates).Error; err != nil {
			return utils.Internal(c)
		}
	}
	return utils.Success(c, service)
}

func DeleteService(c *fiber.Ctx) error {
	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}
	if service.SellerID != middleware.SellerID(c) {
		return utils.Error(c, fiber.StatusForbidden, "You can only delete your own services")
	}

	// A service with future bookings stays on record; deactivate instead.
	var upcoming int64
	db.DB.Model(&models.Appointment{}).
		Where("service_id = ? AND status IN ?", service.ID, models.ConflictingStatuses).
		Count(&upcoming)
	if upcoming > 0 {
		return utils.Error(c, fiber.StatusBadRequest, "Service has active bookings; deactivate it instead")
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return utils.Internal(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
