package repository

import (
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

type WishlistRepository interface {
	Create(entry *model.Wishlist) error
	Find(userID, productID uint) (*model.Wishlist, error)
	FindByUserID(userID uint) ([]model.Wishlist, error)
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(entry *model.Wishlist) error {
	logger.Debug("Creating wishlist entry in database", map[string]interface{}{
		"user_id":    entry.UserID,
		"product_id": entry.ProductID,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create wishlist entry in database", err, map[string]interface{}{
			"user_id":    entry.UserID,
			"product_id": entry.ProductID,
		})
		return err
	}

	return nil
}

func (r *wishlistRepository) Find(userID, productID uint) (*model.Wishlist, error) {
	var entry model.Wishlist
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *wishlistRepository) FindByUserID(userID uint) ([]model.Wishlist, error) {
	logger.Debug("Finding wishlist entries by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var entries []model.Wishlist
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find wishlist entries in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return entries, nil
}

func (r *wishlistRepository) Delete(id uint) error {
	logger.Debug("Deleting wishlist entry from database", map[string]interface{}{
		"wishlist_id": id,
	})

	if err := r.db.Delete(&model.Wishlist{}, id).Error; err != nil {
		logger.Error("Failed to delete wishlist entry from database", err, map[string]interface{}{
			"wishlist_id": id,
		})
		return err
	}

	return nil
}

func (r *wishlistRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Clearing wishlist in database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.Wishlist{}).Error; err != nil {
		logger.Error("Failed to clear wishlist in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}
