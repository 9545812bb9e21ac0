package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/db"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	email := "customer@example.com"
	user := &model.User{
		FullName: "Test Customer",
		Email:    &email,
		Roles:    model.RoleSet{model.RoleCustomer},
	}
	testDB.Create(user)

	sellerEmail := "seller@example.com"
	sellerUser := &model.User{
		FullName: "Test Seller",
		Email:    &sellerEmail,
		Roles:    model.RoleSet{model.RoleCustomer, model.RoleSeller},
	}
	testDB.Create(sellerUser)

	seller := &model.Seller{
		UserID:    sellerUser.ID,
		StoreName: "Test Store",
		GSTNumber: "22AAAAA0000A1Z5",
		Status:    model.SellerStatusApproved,
	}
	testDB.Create(seller)

	category := &model.Category{Name: "Electronics"}
	testDB.Create(category)

	product := &model.Product{
		SellerID:   seller.ID,
		CategoryID: category.ID,
		Name:       "Wireless Mouse",
		Price:      decimal.NewFromFloat(1299.50),
		Stock:      10,
		IsActive:   true,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_GetOrCreateActiveCart(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusActive, cart.Status)

	// Asking again returns the same cart, never a second active one
	again, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem_CreatesWithSnapshot(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, created, err := cartService.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.PriceAtTime.Equal(product.Price))
}

func TestCartService_AddItem_IncrementsExistingLine(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	first, created, err := cartService.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.True(t, created)

	// Price changes after the first add
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(9999))

	second, created, err := cartService.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	// Snapshot from the first add survives the price change
	assert.True(t, second.PriceAtTime.Equal(decimal.NewFromFloat(1299.50)))
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_InactiveProduct(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("is_active", false)

	_, _, err := cartService.AddItem(user.ID, product.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, product.ID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Increment past the stock limit fails too
	_, _, err = cartService.AddItem(user.ID, product.ID, 6)
	require.NoError(t, err)
	_, _, err = cartService.AddItem(user.ID, product.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, _, err := cartService.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cartService.UpdateItemQuantity(user.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = cartService.UpdateItemQuantity(user.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateItemQuantity_NotOwner(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	item, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	otherEmail := "other@example.com"
	other := &model.User{FullName: "Other", Email: &otherEmail}
	testDB.Create(other)

	_, err = cartService.UpdateItemQuantity(other.ID, item.ID, 2)
	assert.ErrorIs(t, err, ErrNotCartOwner)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.RemoveItem(user.ID, item.ID)
	require.NoError(t, err)

	cart, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)

	err = cartService.RemoveItem(user.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_Total_UsesSnapshots(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	testDB.Model(&model.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(50000))

	cart, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)

	want := decimal.NewFromFloat(1299.50).Mul(decimal.NewFromInt(2))
	assert.True(t, cart.Total().Equal(want), "got %s", cart.Total())
}

func TestCartService_Checkout_NoActiveCart(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	// Never having had a cart reads as an empty one
	_, err := cartService.Checkout(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_Checkout(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Empty cart cannot be checked out
	_, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	_, err = cartService.Checkout(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, _, err = cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	cart, err := cartService.Checkout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusOrdered, cart.Status)

	// A fresh active cart starts after checkout
	next, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, next.ID)
	assert.Len(t, next.Items, 0)
}

func TestCartService_SweepAbandoned(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	cart, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)

	// Backdate the cart past the abandonment window
	stale := time.Now().Add(-48 * time.Hour)
	testDB.Model(&model.Cart{}).Where("id = ?", cart.ID).Update("updated_at", stale)

	swept, err := cartService.SweepAbandoned(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	// The abandoned cart revives with its items on the next access
	revived, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, revived.ID)
	assert.Equal(t, model.CartStatusActive, revived.Status)
	assert.Len(t, revived.Items, 1)
}

func TestCartService_OrderedCartIsFrozen(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	ordered, err := cartService.Checkout(user.ID)
	require.NoError(t, err)

	// Even when backdated, an ordered cart is never swept to abandoned
	stale := time.Now().Add(-48 * time.Hour)
	testDB.Model(&model.Cart{}).Where("id = ?", ordered.ID).Update("updated_at", stale)

	swept, err := cartService.SweepAbandoned(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}

// lostRaceCartRepo misses the first line lookup, mimicking a concurrent add
// that inserts the line between the lookup and the insert.
type lostRaceCartRepo struct {
	repository.CartRepository
	missed bool
}

func (r *lostRaceCartRepo) FindItem(cartID, productID uint) (*model.CartItem, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.CartRepository.FindItem(cartID, productID)
}

func TestCartService_AddItem_DuplicateRaceFoldsIntoIncrement(t *testing.T) {
	_, user, product, testDB := setupCartServiceTest(t)

	cartRepo := &lostRaceCartRepo{CartRepository: repository.NewCartRepository(testDB)}
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	cart, err := cartService.GetOrCreateActiveCart(user.ID)
	require.NoError(t, err)

	// The line the concurrent writer already created
	winner := &model.CartItem{
		CartID:      cart.ID,
		ProductID:   product.ID,
		Quantity:    2,
		PriceAtTime: product.Price,
	}
	require.NoError(t, testDB.Create(winner).Error)

	item, created, err := cartService.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 5, item.Quantity)

	// Still a single line for the product
	var count int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
