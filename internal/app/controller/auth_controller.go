package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/config"
	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/app/service"
	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	cfg         *config.Config
}

func NewAuthController(authService service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		authService: authService,
		cfg:         cfg,
	}
}

type SendCodeRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Code  string `json:"code" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image"` // S3 URL from upload API
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SendCode issues a one-time login code
// POST /api/v1/auth/send-code
func (ctrl *AuthController) SendCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid send-code request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	code, err := ctrl.authService.SendCode(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide exactly one of email or phone")
		case errors.Is(err, service.ErrInvalidContact):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid email or phone format")
		default:
			log.Error("Failed to issue verification code", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	resp := gin.H{
		"success": true,
		"message": "Verification code sent",
	}
	// Dev-only shortcut while no delivery provider is wired up. Never
	// enabled in production.
	if ctrl.cfg.OTP.DevEcho && !ctrl.cfg.Server.IsProduction() {
		resp["code"] = code
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyCode exchanges a valid code for a session
// POST /api/v1/auth/verify-code
func (ctrl *AuthController) VerifyCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verify-code request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	result, err := ctrl.authService.VerifyCode(c.Request.Context(), req.Email, req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide exactly one of email or phone")
		case errors.Is(err, service.ErrInvalidContact):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid email or phone format")
		case errors.Is(err, service.ErrInvalidCode):
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid verification code")
		case errors.Is(err, service.ErrCodeExpired):
			apperrors.BadRequest(c, apperrors.AuthCodeExpired, "Verification code has expired")
		case errors.Is(err, service.ErrAccountRestricted):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthAccountRestricted, "This account cannot sign in")
		default:
			log.Error("Code verification failed", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.setSessionCookie(c, result.Token)

	status := http.StatusOK
	if result.IsNewUser {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"success":     true,
		"message":     "Signed in successfully",
		"token":       result.Token,
		"is_new_user": result.IsNewUser,
		"user":        userJSON(result.User),
	})
}

// Logout revokes the current session
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := ""
	if cookie, err := c.Cookie(ctrl.cfg.JWT.CookieName); err == nil {
		token = cookie
	}
	if header := c.GetHeader("Authorization"); token == "" && len(header) > 7 && header[:7] == "Bearer " {
		token = header[7:]
	}

	if token != "" {
		if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
			log.Error("Logout failed", err)
			apperrors.InternalError(c, "")
			return
		}
	}

	ctrl.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// DeleteAccount soft-deletes the caller's account and ends the session
// DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	token := ""
	if cookie, err := c.Cookie(ctrl.cfg.JWT.CookieName); err == nil {
		token = cookie
	}
	if header := c.GetHeader("Authorization"); token == "" && len(header) > 7 && header[:7] == "Bearer " {
		token = header[7:]
	}

	if err := ctrl.authService.DeleteAccount(c.Request.Context(), userID, token); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Account deletion failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	ctrl.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted. Sign in again with the same email or phone to restore it.",
	})
}

// GetProfile returns the caller's account
// GET /api/v1/auth/me
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserWithSeller(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	resp := gin.H{
		"success": true,
		"user":    userJSON(user),
	}
	if user.Seller != nil {
		resp["seller"] = user.Seller
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile edits the caller's account
// PATCH /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.FullName, req.ProfileImage)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Profile update failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated",
		"user":    userJSON(user),
	})
}

// ListUsers returns accounts for the admin console
// GET /api/v1/admin/users
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Role:   model.Role(c.Query("role")),
		Status: model.UserStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}

	users, total, err := ctrl.authService.ListUsers(filter)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

// UpdateUserStatus changes an account's status
// PATCH /api/v1/admin/users/:id/status
func (ctrl *AuthController) UpdateUserStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	user, err := ctrl.authService.UpdateUserStatus(userID, model.UserStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown account status")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("User status update failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User status updated",
		"user":    userJSON(user),
	})
}

// AdminDeleteUser soft-deletes an account
// DELETE /api/v1/admin/users/:id
func (ctrl *AuthController) AdminDeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.authService.AdminDeleteUser(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Admin user deletion failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}

// AdminRestoreUser revives a soft-deleted account
// POST /api/v1/admin/users/:id/restore
func (ctrl *AuthController) AdminRestoreUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.authService.AdminRestoreUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No deleted user found")
			return
		}
		log.Error("Admin user restore failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User restored",
		"user":    userJSON(user),
	})
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		ctrl.cfg.JWT.CookieName,
		token,
		int(ctrl.cfg.JWT.TokenExpiry.Seconds()),
		"/",
		"",
		ctrl.cfg.Server.IsProduction(), // Secure only over TLS
		true,                    // HttpOnly
	)
}

func (ctrl *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(ctrl.cfg.JWT.CookieName, "", -1, "/", "", ctrl.cfg.Server.IsProduction(), true)
}

func userJSON(user *model.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"full_name":     user.FullName,
		"email":         user.Email,
		"phone":         user.Phone,
		"roles":         user.Roles,
		"status":        user.Status,
		"profile_image": user.ProfileImage,
		"created_at":    user.CreatedAt,
	}
}

// parseIDParam reads a numeric path parameter, responding with a validation
// error when it is not a positive integer.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
