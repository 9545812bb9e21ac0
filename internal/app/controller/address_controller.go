package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{addressService: addressService}
}

type AddressRequest struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient" binding:"required,min=2,max=100"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type AddressUpdateRequest struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// Create adds a shipping address
// POST /api/v1/addresses
func (ctrl *AddressController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid address payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid address details")
		return
	}

	address, err := ctrl.addressService.Create(userID, addressInput(req))
	if err != nil {
		ctrl.respondAddressError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Address added",
		"address": address,
	})
}

// List returns the caller's addresses
// GET /api/v1/addresses
func (ctrl *AddressController) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	addresses, err := ctrl.addressService.List(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"addresses": addresses,
	})
}

// Update edits an address
// PATCH /api/v1/addresses/:id
func (ctrl *AddressController) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid address details")
		return
	}

	address, err := ctrl.addressService.Update(userID, addressID, service.AddressInput{
		Label:      req.Label,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		ctrl.respondAddressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Address updated",
		"address": address,
	})
}

// SetDefault marks an address as the default one
// POST /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefault(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	address, err := ctrl.addressService.SetDefault(userID, addressID)
	if err != nil {
		ctrl.respondAddressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Default address updated",
		"address": address,
	})
}

// Delete removes an address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.Delete(userID, addressID); err != nil {
		ctrl.respondAddressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Address removed",
	})
}

func addressInput(req AddressRequest) service.AddressInput {
	return service.AddressInput{
		Label:      req.Label,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}

func (ctrl *AddressController) respondAddressError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
	case errors.Is(err, service.ErrNotAddressOwner):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only manage your own addresses")
	default:
		log.Error("Address operation failed", err)
		info := apperrors.ParseError(err, "address")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
