package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var ErrWishlistEntryNotFound = errors.New("wishlist entry not found")

type WishlistService interface {
	// Toggle adds the product to the wishlist, or removes it when already
	// present. Returns true when the product ended up added.
	Toggle(userID, productID uint) (bool, error)
	List(userID uint) ([]model.Wishlist, error)
	// Contains reports whether the product is on the user's wishlist.
	Contains(userID, productID uint) (bool, error)
	Remove(userID, productID uint) error
	Clear(userID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) Toggle(userID, productID uint) (bool, error) {
	logger.Info("Toggling wishlist entry", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	existing, err := s.wishlistRepo.Find(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if existing != nil {
		if err := s.wishlistRepo.Delete(existing.ID); err != nil {
			return false, err
		}
		logger.Info("Wishlist entry removed", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, nil
	}

	entry := &model.Wishlist{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(entry); err != nil {
		// Concurrent toggles race to the unique index; the loser folds into
		// the same outcome, the product ends up wishlisted either way.
		if apperrors.IsDuplicateKey(err) {
			logger.Debug("Wishlist entry already present", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return true, nil
		}
		return false, err
	}

	logger.Info("Wishlist entry added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return true, nil
}

func (s *wishlistService) List(userID uint) ([]model.Wishlist, error) {
	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) Contains(userID, productID uint) (bool, error) {
	_, err := s.wishlistRepo.Find(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *wishlistService) Remove(userID, productID uint) error {
	entry, err := s.wishlistRepo.Find(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishlistEntryNotFound
		}
		return err
	}

	return s.wishlistRepo.Delete(entry.ID)
}

func (s *wishlistService) Clear(userID uint) error {
	logger.Info("Clearing wishlist", map[string]interface{}{
		"user_id": userID,
	})
	return s.wishlistRepo.DeleteByUserID(userID)
}
