package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

// Toggle adds or removes a product from the wishlist
// POST /api/v1/wishlist/:productId
func (ctrl *WishlistController) Toggle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	added, err := ctrl.wishlistService.Toggle(userID, productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Wishlist toggle failed", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"added":   added,
	})
}

// List returns the caller's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	entries, err := ctrl.wishlistService.List(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"wishlist": entries,
	})
}

// Status reports whether a product is on the caller's wishlist
// GET /api/v1/wishlist/:productId
func (ctrl *WishlistController) Status(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	wishlisted, err := ctrl.wishlistService.Contains(userID, productID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"wishlisted": wishlisted,
	})
}

// Remove deletes a product from the wishlist
// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) Remove(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := ctrl.wishlistService.Remove(userID, productID); err != nil {
		if errors.Is(err, service.ErrWishlistEntryNotFound) {
			apperrors.NotFound(c, apperrors.WishlistNotFound, "Product is not on the wishlist")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from wishlist",
	})
}

// Clear empties the caller's wishlist
// DELETE /api/v1/wishlist
func (ctrl *WishlistController) Clear(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.wishlistService.Clear(userID); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wishlist cleared",
	})
}
