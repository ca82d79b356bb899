package models

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name     string     `json:"name" gorm:"unique"`
	ParentID *uint      `json:"parent_id"`
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	IsActive bool       `json:"is_active" gorm:"default:true"`
}

// InUse reports whether the category still has active children or active
// listings referencing it. Deactivation and deletion are blocked while true.
func (cat *Category) InUse(tx *gorm.DB) (bool, error) {
	var count int64
	if err := tx.Model(&Category{}).
		Where("parent_id = ? AND is_active = ?", cat.ID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.Model(&Product{}).
		Where("category_id = ? AND is_active = ?", cat.ID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.Model(&Service{}).
		Where("category_id = ? AND is_active = ?", cat.ID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
