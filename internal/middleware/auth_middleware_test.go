package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma/bazario-backend/internal/app/model"
	redispkg "github.com/rsharma/bazario-backend/pkg/redis"
	"github.com/rsharma/bazario-backend/pkg/util"
)

const (
	testJWTSecret  = "test-jwt-secret-for-middleware"
	testCookieName = "token"
)

func setupMiddlewareTest(t *testing.T) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authMiddleware := NewAuthMiddleware(testJWTSecret, testCookieName)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		redispkg.SetClient(nil)
	})
	redispkg.SetClient(client)

	return router, authMiddleware
}

func generateTestToken(t *testing.T, userID uint, email string, roles ...string) string {
	token, err := util.GenerateToken(userID, email, roles, testJWTSecret, 15*time.Minute)
	require.NoError(t, err)
	return token
}

func protectedRoute(router *gin.Engine, authMiddleware *AuthMiddleware, extra ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{authMiddleware.Authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		roles, _ := GetUserRoles(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "roles": roles})
	})
	router.GET("/test", handlers...)
}

func TestAuthMiddleware_Authenticate_BearerHeader(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	token := generateTestToken(t, 1, "test@example.com", "CUSTOMER")

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CUSTOMER")
}

func TestAuthMiddleware_Authenticate_CookieFallback(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	token := generateTestToken(t, 1, "test@example.com", "CUSTOMER")

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_UNAUTHORIZED")
}

func TestAuthMiddleware_Authenticate_InvalidFormat(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "NotBearer abc")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestAuthMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	token, err := util.GenerateToken(1, "test@example.com", []string{"CUSTOMER"}, testJWTSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_Authenticate_RevokedToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware)

	token := generateTestToken(t, 1, "test@example.com", "CUSTOMER")
	require.NoError(t, redispkg.BlacklistToken(t.Context(), token, 15*time.Minute))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REVOKED")
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware, authMiddleware.RequireRole(model.RoleAdmin))

	// Customer-only token is rejected
	token := generateTestToken(t, 1, "test@example.com", "CUSTOMER")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin token passes
	adminToken := generateTestToken(t, 2, "admin@example.com", "ADMIN", "CUSTOMER")
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_RequireRole_AnyOf(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)
	protectedRoute(router, authMiddleware, authMiddleware.RequireRole(model.RoleSeller, model.RoleAdmin))

	token := generateTestToken(t, 1, "seller@example.com", "CUSTOMER", "SELLER")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(t)

	router.GET("/test", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		if userID, ok := GetUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guest": true})
	})

	// No token: guest
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest")

	// Valid token: identified
	token := generateTestToken(t, 7, "test@example.com", "CUSTOMER")
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_id")
}
