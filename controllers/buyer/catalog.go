package buyer

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/cache"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// ResponseCache holds listing responses for a short TTL. Best effort only:
// writes do not invalidate it and a cold cache just means one more query.
var ResponseCache = cache.Nop()

const listTTL = 30 * time.Second

// SearchProducts lists active products with optional q/category/city/price
// filters.
func SearchProducts(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	cacheKey := fmt.Sprintf("products:%s", c.OriginalURL())
	var cached utils.PagedResponse
	if ResponseCache.Get(c.Context(), cacheKey, &cached) {
		return c.JSON(cached)
	}

	query := db.DB.Model(&models.Product{}).
		Preload("Seller").Preload("Category").
		Where("products.is_active = ?", true)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("products.title ILIKE ? OR products.description ILIKE ?", like, like)
	}
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		query = query.Where("products.category_id = ?", categoryID)
	}
	if city := c.Query("city"); city != "" {
		query = query.Joins("JOIN sellers ON sellers.id = products.seller_id").
			Where("sellers.city ILIKE ?", city)
	}
	if min := c.QueryFloat("min_price"); min > 0 {
		query = query.Where("products.price >= ?", min)
	}
	if max := c.QueryFloat("max_price"); max > 0 {
		query = query.Where("products.price <= ?", max)
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Order("products.created_at desc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return utils.Internal(c)
	}

	ResponseCache.Set(c.Context(), cacheKey, utils.PagedResponse{
		Success: true, Data: products, Page: page, Limit: limit,
		Total: total, Pages: (total + int64(limit) - 1) / int64(limit),
	}, listTTL)

	return utils.Paged(c, products, page, limit, total)
}

// SearchServices lists active bookable services with the same filters plus a
// mobile flag.
func SearchServices(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	query := db.DB.Model(&models.Service{}).
		Preload("Seller").Preload("Category").
		Where("services.is_active = ?", true)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("services.title ILIKE ? OR services.description ILIKE ?", like, like)
	}
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		query = query.Where("services.category_id = ?", categoryID)
	}
	if city := c.Query("city"); city != "" {
		query = query.Joins("JOIN sellers ON sellers.id = services.seller_id").
			Where("sellers.city ILIKE ?", city)
	}
	if mobile := c.Query("mobile"); mobile == "true" {
		query = query.Where("services.is_mobile = ?", true)
	}

	var total int64
	query.Count(&total)

	var services []models.Service
	if err := query.Order("services.created_at desc").Offset(offset).Limit(limit).Find(&services).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Paged(c, services, page, limit, total)
}

func GetProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := db.DB.Preload("Seller").Preload("Category").First(&product, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Product not found")
	}
	return utils.Success(c, product)
}

func GetService(c *fiber.Ctx) error {
	var service models.Service
	if err := db.DB.Preload("Seller").Preload("Category").First(&service, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Service not found")
	}
	return utils.Success(c, service)
}

// GetSeller returns a shop profile with its active listings.
func GetSeller(c *fiber.Ctx) error {
	var seller models.Seller
	if err := db.DB.First(&seller, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Seller not found")
	}

	var products []models.Product
	db.DB.Where("seller_id = ? AND is_active = ?", seller.ID, true).Find(&products)
	var services []models.Service
	db.DB.Where("seller_id = ? AND is_active = ?", seller.ID, true).Find(&services)

	return utils.Success(c, fiber.Map{
		"seller":   seller,
		"products": products,
		"services": services,
	})
}

// GetCategories returns the active category tree.
func GetCategories(c *fiber.Ctx) error {
	cacheKey := "categories:tree"
	var cached []models.Category
	if ResponseCache.Get(c.Context(), cacheKey, &cached) {
		return utils.Success(c, cached)
	}

	var roots []models.Category
	err := db.DB.Where("parent_id IS NULL AND is_active = ?", true).
		Preload("Children", "is_active = ?", true).
		Find(&roots).Error
	if err != nil {
		return utils.Internal(c)
	}

	ResponseCache.Set(c.Context(), cacheKey, roots, listTTL)
	return utils.Success(c, roots)
}
