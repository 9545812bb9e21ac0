package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

var (
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrProductUnavailable    = errors.New("product is not available")
	ErrInsufficientStock     = errors.New("not enough stock for the requested quantity")
	ErrInvalidCartTransition = errors.New("cart status transition not allowed")
	ErrCartEmpty             = errors.New("cart has no items")
	ErrNotCartOwner          = errors.New("cart belongs to another user")
)

type CartService interface {
	// GetOrCreateActiveCart returns the user's working cart, reviving the
	// most recent abandoned cart before creating a fresh one.
	GetOrCreateActiveCart(userID uint) (*model.Cart, error)
	// AddItem puts a product in the active cart. Re-adding a product
	// increments its line instead of creating a second one; the price
	// snapshot from the first add is kept.
	AddItem(userID, productID uint, quantity int) (*model.CartItem, bool, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(userID, itemID uint) error
	ClearCart(userID uint) error
	// Checkout freezes the active cart as ordered.
	Checkout(userID uint) (*model.Cart, error)
	ListCarts(userID uint) ([]model.Cart, error)
	// SweepAbandoned marks active carts idle since the cutoff as abandoned
	// and returns how many were swept.
	SweepAbandoned(cutoff time.Time) (int, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetOrCreateActiveCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Revive the newest abandoned cart before starting over.
	carts, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	for i := range carts {
		if carts[i].Status == model.CartStatusAbandoned {
			if err := s.transition(&carts[i], model.CartStatusActive); err != nil {
				return nil, err
			}
			logger.Info("Abandoned cart revived", map[string]interface{}{
				"cart_id": carts[i].ID,
				"user_id": userID,
			})
			return s.cartRepo.FindByID(carts[i].ID)
		}
	}

	newCart := &model.Cart{
		UserID: userID,
		Status: model.CartStatusActive,
	}
	if err := s.cartRepo.Create(newCart); err != nil {
		return nil, err
	}

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": newCart.ID,
		"user_id": userID,
	})
	return newCart, nil
}

// transition validates and applies a cart status change.
func (s *cartService) transition(cart *model.Cart, target model.CartStatus) error {
	if !cart.Status.CanTransitionTo(target) {
		logger.Warn("Cart status transition rejected", map[string]interface{}{
			"cart_id": cart.ID,
			"from":    cart.Status,
			"to":      target,
		})
		return ErrInvalidCartTransition
	}

	if err := s.cartRepo.UpdateStatus(cart.ID, target); err != nil {
		return err
	}

	cart.Status = target
	return nil
}

func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.CartItem, bool, error) {
	if quantity < 1 {
		return nil, false, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrProductNotFound
		}
		return nil, false, err
	}
	if !product.IsActive {
		return nil, false, ErrProductUnavailable
	}

	cart, err := s.GetOrCreateActiveCart(userID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		item, err := s.incrementItem(cart, existing, product, quantity)
		if err != nil {
			return nil, false, err
		}
		return item, false, nil
	}

	if product.Stock < quantity {
		logger.Warn("Add to cart rejected: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"stock":      product.Stock,
			"requested":  quantity,
		})
		return nil, false, ErrInsufficientStock
	}

	item := &model.CartItem{
		CartID:      cart.ID,
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: product.Price, // snapshot; later price changes do not touch it
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		// A concurrent add for the same product can win the unique index
		// race; fold this request into the line it created.
		if apperrors.IsDuplicateKey(err) {
			winner, findErr := s.cartRepo.FindItem(cart.ID, productID)
			if findErr != nil {
				return nil, false, err
			}
			merged, incErr := s.incrementItem(cart, winner, product, quantity)
			if incErr != nil {
				return nil, false, incErr
			}
			return merged, false, nil
		}
		return nil, false, err
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warn("Failed to touch cart after item create", map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Cart item created", map[string]interface{}{
		"cart_item_id":  item.ID,
		"price_at_time": item.PriceAtTime,
	})
	return item, true, nil
}

// incrementItem folds quantity into an existing line. The original price
// snapshot stands; only the quantity moves.
func (s *cartService) incrementItem(cart *model.Cart, existing *model.CartItem, product *model.Product, quantity int) (*model.CartItem, error) {
	newQuantity := existing.Quantity + quantity
	if product.Stock < newQuantity {
		logger.Warn("Add to cart rejected: insufficient stock", map[string]interface{}{
			"product_id": product.ID,
			"stock":      product.Stock,
			"requested":  newQuantity,
		})
		return nil, ErrInsufficientStock
	}

	existing.Quantity = newQuantity
	if err := s.cartRepo.UpdateItem(existing); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warn("Failed to touch cart after item update", map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Cart item quantity incremented", map[string]interface{}{
		"cart_item_id": existing.ID,
		"quantity":     existing.Quantity,
	})
	return existing, nil
}

func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, cart, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err == nil && product.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warn("Failed to touch cart after quantity update", map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     quantity,
	})
	return item, nil
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	item, cart, err := s.ownedItem(userID, itemID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return err
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warn("Failed to touch cart after item removal", map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": itemID,
		"user_id":      userID,
	})
	return nil
}

// ownedItem loads an item and verifies it sits in the caller's active cart.
func (s *cartService) ownedItem(userID, itemID uint) (*model.CartItem, *model.Cart, error) {
	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartItemNotFound
		}
		return nil, nil, err
	}

	cart, err := s.cartRepo.FindByID(item.CartID)
	if err != nil {
		return nil, nil, err
	}
	if cart.UserID != userID {
		logger.Warn("Cart item access denied", map[string]interface{}{
			"cart_item_id": itemID,
			"user_id":      userID,
			"owner_id":     cart.UserID,
		})
		return nil, nil, ErrNotCartOwner
	}

	return item, cart, nil
}

func (s *cartService) ClearCart(userID uint) error {
	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}

	if err := s.cartRepo.DeleteItems(cart.ID); err != nil {
		return err
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warn("Failed to touch cart after clear", map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Cart cleared", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return nil
}

func (s *cartService) Checkout(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err != nil {
		// No active cart at all is the same as an empty one
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	if err := s.transition(cart, model.CartStatusOrdered); err != nil {
		return nil, err
	}

	logger.Info("Cart checked out", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"total":   cart.Total(),
		"items":   len(cart.Items),
	})
	return cart, nil
}

func (s *cartService) ListCarts(userID uint) ([]model.Cart, error) {
	return s.cartRepo.FindByUserID(userID)
}

func (s *cartService) SweepAbandoned(cutoff time.Time) (int, error) {
	carts, err := s.cartRepo.FindIdleActive(cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range carts {
		if err := s.transition(&carts[i], model.CartStatusAbandoned); err != nil {
			logger.Warn("Failed to abandon idle cart", map[string]interface{}{
				"cart_id": carts[i].ID,
			})
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.Info("Idle carts marked abandoned", map[string]interface{}{
			"count":  swept,
			"cutoff": cutoff,
		})
	}
	return swept, nil
}
