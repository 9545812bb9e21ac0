package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	sellerService  service.SellerService
}

func NewProductController(productService service.ProductService, sellerService service.SellerService) *ProductController {
	return &ProductController{
		productService: productService,
		sellerService:  sellerService,
	}
}

type CreateProductRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required,min=2,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	Images      []string        `json:"images"`
}

type UpdateProductRequest struct {
	CategoryID  uint            `json:"category_id"`
	Name        string          `json:"name" binding:"omitempty,min=2,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
	Images      []string        `json:"images"`
	IsActive    *bool           `json:"is_active"`
}

// approvedSeller resolves the caller's approved seller profile.
func (ctrl *ProductController) approvedSeller(c *gin.Context) (*model.Seller, bool) {
	userID, _ := middleware.GetUserID(c)

	seller, err := ctrl.sellerService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.Forbidden(c, "A seller profile is required")
			return nil, false
		}
		apperrors.InternalError(c, "")
		return nil, false
	}
	if seller.Status != model.SellerStatusApproved {
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.SellerNotApproved, "Seller profile is not approved")
		return nil, false
	}

	return seller, true
}

// Create lists a new product
// POST /api/v1/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	seller, ok := ctrl.approvedSeller(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	product, err := ctrl.productService.Create(seller.ID, service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product listed",
		"product": product,
	})
}

// List returns the catalog
// GET /api/v1/products
func (ctrl *ProductController) List(c *gin.Context) {
	filter := repository.ProductFilter{
		CategoryID: uint(parseIntQuery(c, "category_id", 0)),
		SellerID:   uint(parseIntQuery(c, "seller_id", 0)),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		ActiveOnly: true,
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}

	if raw := c.Query("min_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &price
		}
	}

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// ListMine returns the caller's own listings, including inactive ones
// GET /api/v1/products/mine
func (ctrl *ProductController) ListMine(c *gin.Context) {
	seller, ok := ctrl.approvedSeller(c)
	if !ok {
		return
	}

	filter := repository.ProductFilter{
		SellerID: seller.ID,
		Page:     parseIntQuery(c, "page", 1),
		Limit:    parseIntQuery(c, "limit", 20),
	}

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    total,
	})
}

// Get returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetByID(productID)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// GetBySlug returns one product by its URL slug
// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Product slug is required")
		return
	}

	product, err := ctrl.productService.GetBySlug(slug)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// Update edits a listing
// PATCH /api/v1/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	seller, ok := ctrl.approvedSeller(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	product, err := ctrl.productService.Update(seller.ID, productID, service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated",
		"product": product,
	})
}

// Delete removes a listing
// DELETE /api/v1/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	seller, ok := ctrl.approvedSeller(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(seller.ID, productID); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product removed",
	})
}

// AdminList returns the full catalog, inactive listings included
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminList(c *gin.Context) {
	filter := repository.ProductFilter{
		CategoryID: uint(parseIntQuery(c, "category_id", 0)),
		SellerID:   uint(parseIntQuery(c, "seller_id", 0)),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// AdminDelete removes a listing for good
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) AdminDelete(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.AdminDelete(productID); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrNotProductOwner):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only manage your own products")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price must not be negative")
	case errors.Is(err, service.ErrInvalidStock):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Stock must not be negative")
	default:
		log.Error("Product operation failed", err)
		info := apperrors.ParseError(err, "product")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
