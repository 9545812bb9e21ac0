package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type SellerController struct {
	sellerService service.SellerService
}

func NewSellerController(sellerService service.SellerService) *SellerController {
	return &SellerController{sellerService: sellerService}
}

type SellerApplicationRequest struct {
	StoreName     string `json:"store_name" binding:"required,min=2,max=100"`
	Description   string `json:"description"`
	BusinessEmail string `json:"business_email" binding:"omitempty,email"`
	BusinessPhone string `json:"business_phone"`
	Address       string `json:"address" binding:"required"`
	GSTNumber     string `json:"gst_number" binding:"required"`
	PANNumber     string `json:"pan_number"`
}

type SellerProfileUpdateRequest struct {
	StoreName     string `json:"store_name" binding:"omitempty,min=2,max=100"`
	Description   string `json:"description"`
	BusinessEmail string `json:"business_email" binding:"omitempty,email"`
	BusinessPhone string `json:"business_phone"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
	PANNumber     string `json:"pan_number"`
}

type SellerStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func applicationInput(req SellerApplicationRequest) service.SellerInput {
	return service.SellerInput{
		StoreName:     req.StoreName,
		Description:   req.Description,
		BusinessEmail: req.BusinessEmail,
		BusinessPhone: req.BusinessPhone,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		PANNumber:     req.PANNumber,
	}
}

// Apply submits a seller application
// POST /api/v1/sellers/apply
func (ctrl *SellerController) Apply(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req SellerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid seller application", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid application details")
		return
	}

	seller, err := ctrl.sellerService.Apply(userID, applicationInput(req))
	if err != nil {
		if errors.Is(err, service.ErrAlreadyApplied) {
			apperrors.Conflict(c, apperrors.SellerAlreadyApplied, "You have already submitted a seller application")
			return
		}
		log.Error("Seller application failed", err, map[string]interface{}{
			"user_id": userID,
		})
		info := apperrors.ParseError(err, "apply seller")
		apperrors.RespondWithError(c, http.StatusConflict, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted for review",
		"seller":  seller,
	})
}

// GetMyApplication returns the caller's application
// GET /api/v1/sellers/me
func (ctrl *SellerController) GetMyApplication(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	seller, err := ctrl.sellerService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "No seller application found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"seller":  seller,
	})
}

// GetBySlug returns a public store page
// GET /api/v1/sellers/:slug
func (ctrl *SellerController) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	seller, err := ctrl.sellerService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "Store not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	// Only approved stores are public
	if seller.Status != model.SellerStatusApproved {
		apperrors.NotFound(c, apperrors.SellerNotFound, "Store not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"seller": gin.H{
			"id":          seller.ID,
			"store_name":  seller.StoreName,
			"store_slug":  seller.StoreSlug,
			"description": seller.Description,
		},
	})
}

// Resubmit re-opens a rejected application
// POST /api/v1/sellers/resubmit
func (ctrl *SellerController) Resubmit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req SellerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid application details")
		return
	}

	seller, err := ctrl.sellerService.Resubmit(userID, applicationInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerNotFound):
			apperrors.NotFound(c, apperrors.SellerNotFound, "No seller application found")
		case errors.Is(err, service.ErrSellerNotRejected):
			apperrors.Conflict(c, apperrors.SellerNotRejected, "Only rejected applications can be resubmitted")
		default:
			log.Error("Seller resubmission failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application resubmitted for review",
		"seller":  seller,
	})
}

// UpdateProfile edits an approved store
// PATCH /api/v1/sellers/me
func (ctrl *SellerController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req SellerProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile details")
		return
	}

	seller, err := ctrl.sellerService.UpdateProfile(userID, service.SellerInput{
		StoreName:     req.StoreName,
		Description:   req.Description,
		BusinessEmail: req.BusinessEmail,
		BusinessPhone: req.BusinessPhone,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		PANNumber:     req.PANNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerNotFound):
			apperrors.NotFound(c, apperrors.SellerNotFound, "No seller profile found")
		case errors.Is(err, service.ErrSellerNotApproved):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.SellerNotApproved, "Profile can only be edited while approved")
		default:
			log.Error("Seller profile update failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Store profile updated",
		"seller":  seller,
	})
}

// Withdraw removes the caller's application
// DELETE /api/v1/sellers/me
func (ctrl *SellerController) Withdraw(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.sellerService.Withdraw(userID); err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "No seller application found")
			return
		}
		if errors.Is(err, service.ErrSellerNotApproved) {
			apperrors.BadRequest(c, apperrors.SellerNotApproved, "Only an approved store can be withdrawn")
			return
		}
		log.Error("Seller withdrawal failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Seller application withdrawn",
	})
}

// Restore revives a withdrawn application
// POST /api/v1/sellers/restore
func (ctrl *SellerController) Restore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	seller, err := ctrl.sellerService.Restore(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "No withdrawn application found")
			return
		}
		if errors.Is(err, service.ErrSellerNotApproved) {
			apperrors.BadRequest(c, apperrors.SellerNotApproved, "Only a withdrawn approved store can be restored")
			return
		}
		log.Error("Seller restore failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application restored and queued for review",
		"seller":  seller,
	})
}

// List returns applications for the admin console
// GET /api/v1/admin/sellers
func (ctrl *SellerController) List(c *gin.Context) {
	filter := repository.SellerFilter{
		Status: model.SellerStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}

	sellers, total, err := ctrl.sellerService.List(filter)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sellers": sellers,
		"total":   total,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

// UpdateStatus applies a review decision
// PATCH /api/v1/admin/sellers/:id/status
func (ctrl *SellerController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SellerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	seller, err := ctrl.sellerService.UpdateStatus(sellerID, model.SellerStatus(req.Status), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSellerStatus):
			apperrors.BadRequest(c, apperrors.SellerInvalidStatus, "Unknown seller status")
		case errors.Is(err, service.ErrSellerNotFound):
			apperrors.NotFound(c, apperrors.SellerNotFound, "Seller application not found")
		default:
			log.Error("Seller status update failed", err, map[string]interface{}{
				"seller_id": sellerID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review decision applied",
		"seller":  seller,
	})
}

// AdminDelete removes any profile regardless of status
// DELETE /api/v1/admin/sellers/:id
func (ctrl *SellerController) AdminDelete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.sellerService.AdminDelete(sellerID); err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "Seller profile not found")
			return
		}
		log.Error("Admin seller deletion failed", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Seller profile deleted",
	})
}

// AdminRestore revives a soft-deleted profile with its prior status
// POST /api/v1/admin/sellers/:id/restore
func (ctrl *SellerController) AdminRestore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	seller, err := ctrl.sellerService.AdminRestore(sellerID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerNotFound, "No deleted seller profile found")
			return
		}
		log.Error("Admin seller restore failed", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Seller profile restored",
		"seller":  seller,
	})
}
