package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByID(id uint) (*model.Cart, error)
	FindActiveByUserID(userID uint) (*model.Cart, error)
	FindByUserID(userID uint) ([]model.Cart, error)
	UpdateStatus(id uint, status model.CartStatus) error
	Touch(id uint) error
	// FindIdleActive returns active carts untouched since the cutoff.
	FindIdleActive(cutoff time.Time) ([]model.Cart, error)

	CreateItem(item *model.CartItem) error
	FindItem(cartID, productID uint) (*model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	UpdateItem(item *model.CartItem) error
	DeleteItem(id uint) error
	DeleteItems(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindByID(id uint) (*model.Cart, error) {
	logger.Debug("Finding cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.Cart
	err := r.db.Preload("Items.Product").First(&cart, id).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) FindActiveByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding active cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.Cart, error) {
	logger.Debug("Finding carts by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var carts []model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find carts by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return carts, nil
}

func (r *cartRepository) UpdateStatus(id uint, status model.CartStatus) error {
	logger.Debug("Updating cart status in database", map[string]interface{}{
		"cart_id": id,
		"status":  status,
	})

	if err := r.db.Model(&model.Cart{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		logger.Error("Failed to update cart status in database", err, map[string]interface{}{
			"cart_id": id,
			"status":  status,
		})
		return err
	}

	return nil
}

func (r *cartRepository) Touch(id uint) error {
	return r.db.Model(&model.Cart{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}

func (r *cartRepository) FindIdleActive(cutoff time.Time) ([]model.Cart, error) {
	logger.Debug("Finding idle active carts in database", map[string]interface{}{
		"cutoff": cutoff,
	})

	var carts []model.Cart
	err := r.db.Where("status = ? AND updated_at < ?", model.CartStatusActive, cutoff).
		Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find idle active carts in database", err)
		return nil, err
	}

	return carts, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
		"product_id":   item.ProductID,
	})
	return nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by cart and product in database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
	})

	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteItems(cartID uint) error {
	logger.Debug("Deleting all cart items from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	return nil
}
