package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart returns the caller's active cart with its running total
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cart, err := ctrl.cartService.GetOrCreateActiveCart(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// AddItem puts a product in the cart
// POST /api/v1/cart/items
// Responds 201 when a new line was created, 200 when an existing line
// was incremented.
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add-item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	item, created, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	status := http.StatusOK
	message := "Cart item quantity updated"
	if created {
		status = http.StatusCreated
		message = "Item added to cart"
	}

	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"item":    item,
	})
}

// UpdateItem changes a line's quantity
// PATCH /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	item, err := ctrl.cartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart item updated",
		"item":    item,
	})
}

// RemoveItem deletes a line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(userID, itemID); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
	})
}

// ClearCart empties the active cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}

// Checkout freezes the active cart as ordered
// POST /api/v1/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	cart, err := ctrl.cartService.Checkout(userID)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	log.Info("Cart checked out", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order placed",
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// ListCarts returns the caller's cart history
// GET /api/v1/cart/history
func (ctrl *CartController) ListCarts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	carts, err := ctrl.cartService.ListCarts(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"carts":   carts,
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrProductUnavailable):
		apperrors.Conflict(c, apperrors.ProductInactive, "This product is not available")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.Conflict(c, apperrors.ProductOutOfStock, "Not enough stock for the requested quantity")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
	case errors.Is(err, service.ErrInvalidCartTransition):
		apperrors.Conflict(c, apperrors.CartInvalidTransition, "Cart cannot change to that status")
	case errors.Is(err, service.ErrCartEmpty):
		apperrors.BadRequest(c, apperrors.CartNotFound, "Cart has no items")
	case errors.Is(err, service.ErrNotCartOwner):
		apperrors.Forbidden(c, "")
	default:
		log.Error("Cart operation failed", err)
		apperrors.InternalError(c, "")
	}
}
