package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("product already reviewed by this user")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNotReviewOwner      = errors.New("review belongs to another user")
)

type ReviewService interface {
	// Create adds a review; one per product per user.
	Create(userID, productID uint, rating int, comment string) (*model.Review, error)
	ListByProduct(productID uint, page, limit int) ([]model.Review, int64, error)
	Update(userID, reviewID uint, rating int, comment string) (*model.Review, error)
	Delete(userID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) Create(userID, productID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	logger.Info("Creating review", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.reviewRepo.Find(productID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Review rejected: already reviewed", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if err := s.productRepo.RefreshRatingStats(productID); err != nil {
		logger.Warn("Failed to refresh product rating stats", map[string]interface{}{
			"product_id": productID,
		})
	}

	return review, nil
}

func (s *reviewService) ListByProduct(productID uint, page, limit int) ([]model.Review, int64, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProductNotFound
		}
		return nil, 0, err
	}

	return s.reviewRepo.FindByProductID(productID, page, limit)
}

func (s *reviewService) Update(userID, reviewID uint, rating int, comment string) (*model.Review, error) {
	if rating != 0 && (rating < 1 || rating > 5) {
		return nil, ErrInvalidRating
	}

	review, err := s.ownedReview(userID, reviewID)
	if err != nil {
		return nil, err
	}

	if rating != 0 {
		review.Rating = rating
	}
	if comment != "" {
		review.Comment = comment
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	if err := s.productRepo.RefreshRatingStats(review.ProductID); err != nil {
		logger.Warn("Failed to refresh product rating stats", map[string]interface{}{
			"product_id": review.ProductID,
		})
	}

	return review, nil
}

func (s *reviewService) Delete(userID, reviewID uint) error {
	review, err := s.ownedReview(userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(review.ID); err != nil {
		return err
	}

	if err := s.productRepo.RefreshRatingStats(review.ProductID); err != nil {
		logger.Warn("Failed to refresh product rating stats", map[string]interface{}{
			"product_id": review.ProductID,
		})
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
	})
	return nil
}

func (s *reviewService) ownedReview(userID, reviewID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != userID {
		logger.Warn("Review access denied", map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
			"owner_id":  review.UserID,
		})
		return nil, ErrNotReviewOwner
	}

	return review, nil
}
