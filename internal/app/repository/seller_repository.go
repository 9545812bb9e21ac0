package repository

import (
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

// SellerFilter narrows admin seller listings.
type SellerFilter struct {
	Status model.SellerStatus
	Search string // matches store name, GST number, business email, owner email
	Page   int
	Limit  int
}

type SellerRepository interface {
	Create(seller *model.Seller) error
	FindByID(id uint) (*model.Seller, error)
	FindByUserID(userID uint) (*model.Seller, error)
	FindBySlug(slug string) (*model.Seller, error)
	FindAll(filter SellerFilter) ([]model.Seller, int64, error)
	Update(seller *model.Seller) error
	// SaveStatusAndRoles persists a review decision and the owner's role set
	// in one transaction, so selling privileges never drift from the
	// application status.
	SaveStatusAndRoles(seller *model.Seller, user *model.User) error
	Delete(id uint) error
	// FindDeletedByUserID looks up a soft-deleted profile without reviving it.
	FindDeletedByUserID(userID uint) (*model.Seller, error)
	FindDeletedByID(id uint) (*model.Seller, error)
	Restore(userID uint) (*model.Seller, error)
	RestoreByID(id uint) (*model.Seller, error)
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(seller *model.Seller) error {
	logger.Debug("Creating seller application in database", map[string]interface{}{
		"user_id":    seller.UserID,
		"store_name": seller.StoreName,
	})

	if err := r.db.Create(seller).Error; err != nil {
		logger.Error("Failed to create seller application in database", err, map[string]interface{}{
			"user_id":    seller.UserID,
			"store_name": seller.StoreName,
		})
		return err
	}

	logger.Debug("Seller application created in database", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   seller.UserID,
	})
	return nil
}

func (r *sellerRepository) FindByID(id uint) (*model.Seller, error) {
	logger.Debug("Finding seller by ID in database", map[string]interface{}{
		"seller_id": id,
	})

	var seller model.Seller
	err := r.db.Preload("User").First(&seller, id).Error
	if err != nil {
		logger.Error("Failed to find seller by ID in database", err, map[string]interface{}{
			"seller_id": id,
		})
		return nil, err
	}

	return &seller, nil
}

func (r *sellerRepository) FindByUserID(userID uint) (*model.Seller, error) {
	logger.Debug("Finding seller by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var seller model.Seller
	err := r.db.Where("user_id = ?", userID).First(&seller).Error
	if err != nil {
		return nil, err
	}

	return &seller, nil
}

func (r *sellerRepository) FindBySlug(slug string) (*model.Seller, error) {
	logger.Debug("Finding seller by slug in database", map[string]interface{}{
		"store_slug": slug,
	})

	var seller model.Seller
	err := r.db.Where("store_slug = ?", slug).First(&seller).Error
	if err != nil {
		return nil, err
	}

	return &seller, nil
}

func (r *sellerRepository) FindAll(filter SellerFilter) ([]model.Seller, int64, error) {
	logger.Debug("Listing sellers in database", map[string]interface{}{
		"status": filter.Status,
		"search": filter.Search,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	query := r.db.Model(&model.Seller{})

	if filter.Status != "" {
		query = query.Where("sellers.status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = sellers.user_id").
			Where("sellers.store_name LIKE ? OR sellers.gst_number LIKE ? OR sellers.business_email LIKE ? OR users.email LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count sellers in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Limit)
		}
	}

	var sellers []model.Seller
	if err := query.Preload("User").Order("sellers.created_at DESC").Find(&sellers).Error; err != nil {
		logger.Error("Failed to list sellers in database", err)
		return nil, 0, err
	}

	logger.Debug("Sellers listed in database", map[string]interface{}{
		"count": len(sellers),
		"total": total,
	})
	return sellers, total, nil
}

func (r *sellerRepository) Update(seller *model.Seller) error {
	logger.Debug("Updating seller in database", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   seller.UserID,
	})

	if err := r.db.Save(seller).Error; err != nil {
		logger.Error("Failed to update seller in database", err, map[string]interface{}{
			"seller_id": seller.ID,
		})
		return err
	}

	return nil
}

func (r *sellerRepository) SaveStatusAndRoles(seller *model.Seller, user *model.User) error {
	logger.Debug("Saving seller status and user roles in database", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   user.ID,
		"status":    seller.Status,
		"roles":     user.Roles,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Seller{}).Where("id = ?", seller.ID).Updates(map[string]interface{}{
			"status":      seller.Status,
			"reviewed_at": seller.ReviewedAt,
			"review_note": seller.ReviewNote,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).Where("id = ?", user.ID).Update("roles", user.Roles).Error
	})
	if err != nil {
		logger.Error("Failed to save seller status and user roles in database", err, map[string]interface{}{
			"seller_id": seller.ID,
			"user_id":   user.ID,
		})
		return err
	}

	logger.Debug("Seller status and user roles saved in database", map[string]interface{}{
		"seller_id": seller.ID,
		"status":    seller.Status,
	})
	return nil
}

func (r *sellerRepository) Delete(id uint) error {
	logger.Debug("Deleting seller from database", map[string]interface{}{
		"seller_id": id,
	})

	if err := r.db.Delete(&model.Seller{}, id).Error; err != nil {
		logger.Error("Failed to delete seller from database", err, map[string]interface{}{
			"seller_id": id,
		})
		return err
	}

	return nil
}

func (r *sellerRepository) FindDeletedByUserID(userID uint) (*model.Seller, error) {
	logger.Debug("Finding soft-deleted seller in database", map[string]interface{}{
		"user_id": userID,
	})

	var seller model.Seller
	err := r.db.Unscoped().Where("user_id = ? AND deleted_at IS NOT NULL", userID).First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) FindDeletedByID(id uint) (*model.Seller, error) {
	logger.Debug("Finding soft-deleted seller by ID in database", map[string]interface{}{
		"seller_id": id,
	})

	var seller model.Seller
	err := r.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) Restore(userID uint) (*model.Seller, error) {
	logger.Debug("Restoring soft-deleted seller in database", map[string]interface{}{
		"user_id": userID,
	})

	var seller model.Seller
	err := r.db.Unscoped().Where("user_id = ? AND deleted_at IS NOT NULL", userID).First(&seller).Error
	if err != nil {
		return nil, err
	}

	return r.undelete(&seller)
}

func (r *sellerRepository) RestoreByID(id uint) (*model.Seller, error) {
	logger.Debug("Restoring soft-deleted seller by ID in database", map[string]interface{}{
		"seller_id": id,
	})

	seller, err := r.FindDeletedByID(id)
	if err != nil {
		return nil, err
	}

	return r.undelete(seller)
}

func (r *sellerRepository) undelete(seller *model.Seller) (*model.Seller, error) {
	if err := r.db.Unscoped().Model(seller).Update("deleted_at", nil).Error; err != nil {
		logger.Error("Failed to restore seller in database", err, map[string]interface{}{
			"seller_id": seller.ID,
		})
		return nil, err
	}

	seller.DeletedAt = gorm.DeletedAt{}
	return seller, nil
}
