package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var (
	ErrSellerNotFound      = errors.New("seller profile not found")
	ErrAlreadyApplied      = errors.New("seller application already exists")
	ErrSellerNotRejected   = errors.New("only rejected applications can be resubmitted")
	ErrSellerNotApproved   = errors.New("seller profile is not approved")
	ErrInvalidSellerStatus = errors.New("invalid seller status")
)

// SellerInput carries the fields a user submits with an application.
type SellerInput struct {
	StoreName     string
	Description   string
	BusinessEmail string
	BusinessPhone string
	Address       string
	GSTNumber     string
	PANNumber     string
}

type SellerService interface {
	// Apply submits a new seller application; one per account.
	Apply(userID uint, input SellerInput) (*model.Seller, error)
	GetByUserID(userID uint) (*model.Seller, error)
	GetByID(id uint) (*model.Seller, error)
	GetBySlug(slug string) (*model.Seller, error)
	// Resubmit re-opens a rejected application with updated details.
	Resubmit(userID uint, input SellerInput) (*model.Seller, error)
	// UpdateProfile edits store details; allowed only while approved.
	UpdateProfile(userID uint, input SellerInput) (*model.Seller, error)
	// Withdraw soft-deletes the caller's application and drops the seller role.
	Withdraw(userID uint) error
	// Restore revives a withdrawn application back into review.
	Restore(userID uint) (*model.Seller, error)

	// Admin operations.
	List(filter repository.SellerFilter) ([]model.Seller, int64, error)
	// UpdateStatus applies a review decision. The owner's seller role is
	// synced in the same transaction: granted on approval, removed on any
	// other status.
	UpdateStatus(sellerID uint, status model.SellerStatus, note string) (*model.Seller, error)
	// AdminDelete soft-deletes any profile regardless of status;
	// AdminRestore brings it back with its prior status and role intact.
	AdminDelete(sellerID uint) error
	AdminRestore(sellerID uint) (*model.Seller, error)
}

type sellerService struct {
	sellerRepo repository.SellerRepository
	userRepo   repository.UserRepository
}

func NewSellerService(sellerRepo repository.SellerRepository, userRepo repository.UserRepository) SellerService {
	return &sellerService{
		sellerRepo: sellerRepo,
		userRepo:   userRepo,
	}
}

func (s *sellerService) Apply(userID uint, input SellerInput) (*model.Seller, error) {
	logger.Info("Submitting seller application", map[string]interface{}{
		"user_id":    userID,
		"store_name": input.StoreName,
	})

	existing, err := s.sellerRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing seller application", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Seller application rejected: already applied", map[string]interface{}{
			"user_id":   userID,
			"seller_id": existing.ID,
			"status":    existing.Status,
		})
		return nil, ErrAlreadyApplied
	}

	seller := &model.Seller{
		UserID:        userID,
		StoreName:     input.StoreName,
		Description:   input.Description,
		BusinessEmail: input.BusinessEmail,
		BusinessPhone: input.BusinessPhone,
		Address:       input.Address,
		GSTNumber:     input.GSTNumber,
		PANNumber:     input.PANNumber,
		Status:        model.SellerStatusPending,
	}

	if err := s.sellerRepo.Create(seller); err != nil {
		return nil, err
	}

	logger.Info("Seller application submitted", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   userID,
		"slug":      seller.StoreSlug,
	})
	return seller, nil
}

func (s *sellerService) GetByUserID(userID uint) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) GetByID(id uint) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) GetBySlug(slug string) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) Resubmit(userID uint, input SellerInput) (*model.Seller, error) {
	logger.Info("Resubmitting seller application", map[string]interface{}{
		"user_id": userID,
	})

	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if seller.Status != model.SellerStatusRejected {
		logger.Warn("Resubmission rejected: application not in rejected state", map[string]interface{}{
			"seller_id": seller.ID,
			"status":    seller.Status,
		})
		return nil, ErrSellerNotRejected
	}

	applyInput(seller, input)
	seller.Status = model.SellerStatusPending
	seller.ReviewedAt = nil
	seller.ReviewNote = ""

	if err := s.sellerRepo.Update(seller); err != nil {
		return nil, err
	}

	logger.Info("Seller application resubmitted", map[string]interface{}{
		"seller_id": seller.ID,
	})
	return seller, nil
}

func (s *sellerService) UpdateProfile(userID uint, input SellerInput) (*model.Seller, error) {
	logger.Info("Updating seller profile", map[string]interface{}{
		"user_id": userID,
	})

	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if seller.Status != model.SellerStatusApproved {
		logger.Warn("Profile update rejected: seller not approved", map[string]interface{}{
			"seller_id": seller.ID,
			"status":    seller.Status,
		})
		return nil, ErrSellerNotApproved
	}

	applyInput(seller, input)

	if err := s.sellerRepo.Update(seller); err != nil {
		return nil, err
	}

	return seller, nil
}

// applyInput copies the non-empty fields of input onto the profile.
// StoreSlug is regenerated only when the store name changes.
func applyInput(seller *model.Seller, input SellerInput) {
	if input.StoreName != "" && input.StoreName != seller.StoreName {
		seller.StoreName = input.StoreName
	}
	if input.Description != "" {
		seller.Description = input.Description
	}
	if input.BusinessEmail != "" {
		seller.BusinessEmail = input.BusinessEmail
	}
	if input.BusinessPhone != "" {
		seller.BusinessPhone = input.BusinessPhone
	}
	if input.Address != "" {
		seller.Address = input.Address
	}
	if input.GSTNumber != "" {
		seller.GSTNumber = input.GSTNumber
	}
	if input.PANNumber != "" {
		seller.PANNumber = input.PANNumber
	}
}

func (s *sellerService) Withdraw(userID uint) error {
	logger.Info("Withdrawing seller application", map[string]interface{}{
		"user_id": userID,
	})

	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSellerNotFound
		}
		return err
	}

	// Only a live store can close itself. Pending applications stay in the
	// review queue and suspended ones stay visible to admins.
	if seller.Status != model.SellerStatusApproved {
		logger.Warn("Withdrawal rejected: seller not approved", map[string]interface{}{
			"seller_id": seller.ID,
			"status":    seller.Status,
		})
		return ErrSellerNotApproved
	}

	if err := s.sellerRepo.Delete(seller.ID); err != nil {
		return err
	}

	// Selling privileges end with the application.
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.Roles.Has(model.RoleSeller) {
		if err := s.userRepo.UpdateRoles(user.ID, user.Roles.Remove(model.RoleSeller)); err != nil {
			return err
		}
	}

	logger.Info("Seller application withdrawn", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   userID,
	})
	return nil
}

func (s *sellerService) Restore(userID uint) (*model.Seller, error) {
	logger.Info("Restoring seller application", map[string]interface{}{
		"user_id": userID,
	})

	withdrawn, err := s.sellerRepo.FindDeletedByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	// Only self-withdrawn stores come back this way, and those were approved
	// when they closed. Profiles an admin removed need an admin to revive.
	if withdrawn.Status != model.SellerStatusApproved {
		logger.Warn("Restore rejected: seller not approved at withdrawal", map[string]interface{}{
			"seller_id": withdrawn.ID,
			"status":    withdrawn.Status,
		})
		return nil, ErrSellerNotApproved
	}

	seller, err := s.sellerRepo.Restore(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	// A restored application goes back through review.
	seller.Status = model.SellerStatusPending
	seller.ReviewedAt = nil
	seller.ReviewNote = ""
	if err := s.sellerRepo.Update(seller); err != nil {
		return nil, err
	}

	logger.Info("Seller application restored", map[string]interface{}{
		"seller_id": seller.ID,
	})
	return seller, nil
}

func (s *sellerService) List(filter repository.SellerFilter) ([]model.Seller, int64, error) {
	return s.sellerRepo.FindAll(filter)
}

func (s *sellerService) AdminDelete(sellerID uint) error {
	logger.Info("Admin deleting seller profile", map[string]interface{}{
		"seller_id": sellerID,
	})

	seller, err := s.sellerRepo.FindByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSellerNotFound
		}
		return err
	}

	if err := s.sellerRepo.Delete(seller.ID); err != nil {
		return err
	}

	// Selling privileges end with the profile.
	user, err := s.userRepo.FindByID(seller.UserID)
	if err != nil {
		return err
	}
	if user.Roles.Has(model.RoleSeller) {
		if err := s.userRepo.UpdateRoles(user.ID, user.Roles.Remove(model.RoleSeller)); err != nil {
			return err
		}
	}

	return nil
}

func (s *sellerService) AdminRestore(sellerID uint) (*model.Seller, error) {
	logger.Info("Admin restoring seller profile", map[string]interface{}{
		"seller_id": sellerID,
	})

	seller, err := s.sellerRepo.RestoreByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	// An approved store gets its role back with the profile.
	if seller.Status == model.SellerStatusApproved {
		user, err := s.userRepo.FindByID(seller.UserID)
		if err != nil {
			return nil, err
		}
		if !user.Roles.Has(model.RoleSeller) {
			if err := s.userRepo.UpdateRoles(user.ID, user.Roles.Add(model.RoleSeller)); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Seller profile restored by admin", map[string]interface{}{
		"seller_id": seller.ID,
		"status":    seller.Status,
	})
	return seller, nil
}

func (s *sellerService) UpdateStatus(sellerID uint, status model.SellerStatus, note string) (*model.Seller, error) {
	if !status.IsValid() {
		return nil, ErrInvalidSellerStatus
	}

	logger.Info("Applying seller review decision", map[string]interface{}{
		"seller_id": sellerID,
		"status":    status,
	})

	seller, err := s.sellerRepo.FindByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(seller.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seller.Status = status
	seller.ReviewedAt = &now
	seller.ReviewNote = note

	// Role follows status: only approved sellers hold the role. Add and
	// Remove are idempotent, so repeating a decision is harmless.
	if status == model.SellerStatusApproved {
		user.Roles = user.Roles.Add(model.RoleSeller)
	} else {
		user.Roles = user.Roles.Remove(model.RoleSeller)
	}

	if err := s.sellerRepo.SaveStatusAndRoles(seller, user); err != nil {
		return nil, err
	}

	logger.Info("Seller review decision applied", map[string]interface{}{
		"seller_id": seller.ID,
		"user_id":   user.ID,
		"status":    status,
		"roles":     user.Roles,
	})
	return seller, nil
}
