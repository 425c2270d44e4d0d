package repository

import (
	"coursehub_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type WishlistRepository struct {
	DB *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{DB: db}
}

func (r *WishlistRepository) ListByUser(userID uint) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *WishlistRepository) Add(item *model.WishlistItem) error {
	return r.DB.Create(item).Error
}

func (r *WishlistRepository) Exists(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.WishlistItem{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *WishlistRepository) Remove(userID uint, courseID string) error {
	result := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&model.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
