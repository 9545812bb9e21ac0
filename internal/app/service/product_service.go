package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrNotProductOwner  = errors.New("product belongs to another seller")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStock     = errors.New("stock must not be negative")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductInput carries the fields a seller submits for a listing.
type ProductInput struct {
	CategoryID  uint
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	IsActive    *bool
}

type ProductService interface {
	Create(sellerID uint, input ProductInput) (*model.Product, error)
	GetByID(id uint) (*model.Product, error)
	GetBySlug(slug string) (*model.Product, error)
	List(filter repository.ProductFilter) ([]model.Product, int64, error)
	Update(sellerID, productID uint, input ProductInput) (*model.Product, error)
	Delete(sellerID, productID uint) error
	// AdminDelete permanently removes a product from the catalog.
	AdminDelete(productID uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) Create(sellerID uint, input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"seller_id":   sellerID,
		"name":        input.Name,
		"category_id": input.CategoryID,
	})

	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	product := &model.Product{
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      input.Images,
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
		"seller_id":  sellerID,
	})
	return product, nil
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindAll(filter)
}

func (s *productService) Update(sellerID, productID uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": productID,
		"seller_id":  sellerID,
	})

	product, err := s.ownedProduct(sellerID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if !input.Price.IsZero() {
		if input.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		product.Price = input.Price
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Delete(sellerID, productID uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": productID,
		"seller_id":  sellerID,
	})

	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return err
	}

	return s.productRepo.Delete(productID)
}

func (s *productService) AdminDelete(productID uint) error {
	logger.Info("Admin hard-deleting product", map[string]interface{}{
		"product_id": productID,
	})

	if _, err := s.ownedProduct(0, productID); err != nil {
		return err
	}

	return s.productRepo.HardDelete(productID)
}

// ownedProduct loads a product and verifies seller ownership. sellerID 0
// skips the check, for admin callers.
func (s *productService) ownedProduct(sellerID, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if sellerID != 0 && product.SellerID != sellerID {
		logger.Warn("Product access denied", map[string]interface{}{
			"product_id": productID,
			"seller_id":  sellerID,
			"owner_id":   product.SellerID,
		})
		return nil, ErrNotProductOwner
	}

	return product, nil
}
