package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/app/service"
	"github.com/rsharma/bazario-backend/internal/db"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	email := "shopper@example.com"
	user := &model.User{
		FullName: "Test Shopper",
		Email:    &email,
	}
	require.NoError(t, testDB.Create(user).Error)

	sellerEmail := "merchant@example.com"
	sellerUser := &model.User{
		FullName: "Test Merchant",
		Email:    &sellerEmail,
	}
	require.NoError(t, testDB.Create(sellerUser).Error)

	seller := &model.Seller{
		UserID:    sellerUser.ID,
		StoreName: "Test Store",
		Status:    model.SellerStatusApproved,
	}
	require.NoError(t, testDB.Create(seller).Error)

	category := &model.Category{Name: "Electronics"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		SellerID:   seller.ID,
		CategoryID: category.ID,
		Name:       "Wireless Earbuds",
		Price:      decimal.NewFromFloat(1299.50),
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

// Helper to stand in for the auth middleware.
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set(middleware.UserIDKey, userID)
}

func TestCartController_GetCart_CreatesEmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, true, response["success"])
	cart := response["cart"].(map[string]interface{})
	assert.Equal(t, string(model.CartStatusActive), cart["status"])
	assert.Equal(t, "0", response["total"])
}

func TestCartController_AddItem_NewLine(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Item added to cart", response["message"])
	item := response["item"].(map[string]interface{})
	assert.Equal(t, "1299.5", item["price_at_time"])
}

func TestCartController_AddItem_IncrementsExistingLine(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 3})
	req = httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item quantity updated", response["message"])
	item := response["item"].(map[string]interface{})
	assert.Equal(t, float64(5), item["quantity"])
}

func TestCartController_AddItem_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 11})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "PRODUCT_OUT_OF_STOCK", response["error"])
}

func TestCartController_AddItem_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddItemRequest{ProductID: 9999, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateItem_ChangesQuantity(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	item, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	router.PATCH("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 4})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/cart/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	updated := response["item"].(map[string]interface{})
	assert.Equal(t, float64(4), updated["quantity"])
}

func TestCartController_UpdateItem_OtherUsersItem(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	item, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	intruderEmail := "intruder@example.com"
	intruder := &model.User{FullName: "Intruder", Email: &intruderEmail}
	require.NoError(t, testDB.Create(intruder).Error)

	router.PATCH("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, intruder.ID)
		controller.UpdateItem(c)
	})

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 4})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/cart/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCartController_Checkout_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_Checkout_OrdersCart(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	_, _, err := cartService.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	router.POST("/cart/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cart := response["cart"].(map[string]interface{})
	assert.Equal(t, string(model.CartStatusOrdered), cart["status"])
	assert.Equal(t, "2599", response["total"])
}
