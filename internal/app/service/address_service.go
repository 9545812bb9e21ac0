package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNotAddressOwner = errors.New("address belongs to another user")
)

// AddressInput carries the fields of a shipping address.
type AddressInput struct {
	Label      string
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

type AddressService interface {
	Create(userID uint, input AddressInput) (*model.Address, error)
	List(userID uint) ([]model.Address, error)
	Update(userID, addressID uint, input AddressInput) (*model.Address, error)
	SetDefault(userID, addressID uint) (*model.Address, error)
	Delete(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) Create(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
	})

	if input.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:     userID,
		Label:      input.Label,
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  input.IsDefault,
	}

	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}

	return address, nil
}

func (s *addressService) List(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) Update(userID, addressID uint, input AddressInput) (*model.Address, error) {
	address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Label != "" {
		address.Label = input.Label
	}
	if input.Recipient != "" {
		address.Recipient = input.Recipient
	}
	if input.Phone != "" {
		address.Phone = input.Phone
	}
	if input.Line1 != "" {
		address.Line1 = input.Line1
	}
	if input.Line2 != "" {
		address.Line2 = input.Line2
	}
	if input.City != "" {
		address.City = input.City
	}
	if input.State != "" {
		address.State = input.State
	}
	if input.PostalCode != "" {
		address.PostalCode = input.PostalCode
	}
	if input.Country != "" {
		address.Country = input.Country
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	return address, nil
}

func (s *addressService) SetDefault(userID, addressID uint) (*model.Address, error) {
	address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.ClearDefault(userID); err != nil {
		return nil, err
	}

	address.IsDefault = true
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	logger.Info("Default address changed", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) Delete(userID, addressID uint) error {
	if _, err := s.ownedAddress(userID, addressID); err != nil {
		return err
	}

	return s.addressRepo.Delete(addressID)
}

func (s *addressService) ownedAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if address.UserID != userID {
		logger.Warn("Address access denied", map[string]interface{}{
			"address_id": addressID,
			"user_id":    userID,
			"owner_id":   address.UserID,
		})
		return nil, ErrNotAddressOwner
	}

	return address, nil
}
