package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// List returns all categories
// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// Get returns one category by ID
// GET /api/v1/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetByID(categoryID)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// GetBySlug returns one category by its URL slug
// GET /api/v1/categories/slug/:slug
func (ctrl *CategoryController) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Category slug is required")
		return
	}

	category, err := ctrl.categoryService.GetBySlug(slug)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// Create adds a category (admin)
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.Create(req.Name, req.Description, req.ImageURL)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category created",
		"category": category,
	})
}

// Update edits a category (admin)
// PATCH /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"omitempty,min=2,max=100"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.Update(categoryID, req.Name, req.Description, req.ImageURL)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category updated",
		"category": category,
	})
}

// Delete removes a category (admin)
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(categoryID); err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

func (ctrl *CategoryController) respondCategoryError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	default:
		log.Error("Category operation failed", err)
		info := apperrors.ParseError(err, "category")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
