package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

// CreateCategory adds a category, optionally under a parent.
func CreateCategory(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	if input.ParentID != nil {
		var parent models.Category
		if err := db.DB.First(&parent, *input.ParentID).Error; err != nil {
			return utils.Error(c, fiber.StatusNotFound, "Parent category not found")
		}
		if !parent.IsActive {
			return utils.Error(c, fiber.StatusBadRequest, "Parent category is inactive")
		}
	}

	category := models.Category{Name: input.Name, ParentID: input.ParentID, IsActive: true}
	if err := db.DB.Create(&category).Error; err != nil {
		return utils.Error(c, fiber.StatusConflict, "Category name already exists")
	}
	return utils.Created(c, category)
}

// UpdateCategory renames or reparents a category.
func UpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Category not found")
	}

	var input struct {
		Name     *string `json:"name"`
		ParentID *uint   `json:"parent_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.ParentID != nil {
		if *input.ParentID == category.ID {
			return utils.Error(c, fiber.StatusBadRequest, "Category cannot be its own parent")
		}
		updates["parent_id"] = *input.ParentID
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&category).Updates(updates).Error; err != nil {
			return utils.Error(c, fiber.StatusConflict, "Category name already exists")
		}
	}
	return utils.Success(c, category)
}

// DeactivateCategory soft-disables a category. Blocked while active children
// or active listings still reference it.
func DeactivateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Category not found")
	}

	inUse, err := category.InUse(db.DB)
	if err != nil {
		return utils.Internal(c)
	}
	if inUse {
		return utils.Error(c, fiber.StatusBadRequest, "Category still has active children or listings")
	}

	if err := db.DB.Model(&category).Update("is_active", false).Error; err != nil {
		return utils.Internal(c)
	}
	return utils.Success(c, category)
}

// DeleteCategory removes a category entirely, with the same in-use guard.
func DeleteCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Category not found")
	}

	inUse, err := category.InUse(db.DB)
	if err != nil {
		return utils.Internal(c)
	}
	if inUse {
		return utils.Error(c, fiber.StatusBadRequest, "Category still has active children or listings")
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		return utils.Internal(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
