package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/db"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistRepo := repository.NewWishlistRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

	email := "customer@example.com"
	user := &model.User{FullName: "Test Customer", Email: &email}
	testDB.Create(user)

	sellerEmail := "seller@example.com"
	sellerUser := &model.User{FullName: "Test Seller", Email: &sellerEmail}
	testDB.Create(sellerUser)

	seller := &model.Seller{
		UserID:    sellerUser.ID,
		StoreName: "Test Store",
		GSTNumber: "22AAAAA0000A1Z5",
		Status:    model.SellerStatusApproved,
	}
	testDB.Create(seller)

	category := &model.Category{Name: "Books"}
	testDB.Create(category)

	product := &model.Product{
		SellerID:   seller.ID,
		CategoryID: category.ID,
		Name:       "Paperback Novel",
		Price:      decimal.NewFromInt(499),
		Stock:      5,
		IsActive:   true,
	}
	testDB.Create(product)

	return wishlistService, user, product, testDB
}

func TestWishlistService_Toggle_AddsThenRemoves(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	added, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, added)

	entries, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, product.ID, entries[0].ProductID)

	// Second toggle removes the entry
	added, err = wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, added)

	entries, err = wishlistService.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

func TestWishlistService_Toggle_ProductNotFound(t *testing.T) {
	wishlistService, user, _, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_Toggle_NeverDuplicates(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	for i := 0; i < 4; i++ {
		_, err := wishlistService.Toggle(user.ID, product.ID)
		require.NoError(t, err)
	}

	// Even number of toggles lands back at empty
	entries, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

func TestWishlistService_List_IsPerUser(t *testing.T) {
	wishlistService, user, product, testDB := setupWishlistServiceTest(t)

	otherEmail := "other@example.com"
	other := &model.User{FullName: "Other", Email: &otherEmail}
	testDB.Create(other)

	_, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)

	entries, err := wishlistService.List(other.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

func TestWishlistService_Contains(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	wishlisted, err := wishlistService.Contains(user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, wishlisted)

	_, err = wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)

	wishlisted, err = wishlistService.Contains(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, wishlisted)
}

func TestWishlistService_Remove(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)

	err = wishlistService.Remove(user.ID, product.ID)
	require.NoError(t, err)

	entries, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

func TestWishlistService_Remove_NotWishlisted(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	err := wishlistService.Remove(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistEntryNotFound)
}

func TestWishlistService_Clear(t *testing.T) {
	wishlistService, user, product, testDB := setupWishlistServiceTest(t)

	second := &model.Product{
		SellerID:   product.SellerID,
		CategoryID: product.CategoryID,
		Name:       "Second Pick",
		Price:      decimal.NewFromInt(499),
		Stock:      3,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(second).Error)

	_, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	_, err = wishlistService.Toggle(user.ID, second.ID)
	require.NoError(t, err)

	err = wishlistService.Clear(user.ID)
	require.NoError(t, err)

	entries, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

// lostRaceWishlistRepo misses the first lookup, mimicking a concurrent toggle
// that inserts the entry between the lookup and the insert.
type lostRaceWishlistRepo struct {
	repository.WishlistRepository
	missed bool
}

func (r *lostRaceWishlistRepo) Find(userID, productID uint) (*model.Wishlist, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.WishlistRepository.Find(userID, productID)
}

func TestWishlistService_Toggle_DuplicateRaceFoldsIntoAdded(t *testing.T) {
	_, user, product, testDB := setupWishlistServiceTest(t)

	wishlistRepo := &lostRaceWishlistRepo{WishlistRepository: repository.NewWishlistRepository(testDB)}
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

	// The entry the concurrent toggle already created
	require.NoError(t, testDB.Create(&model.Wishlist{UserID: user.ID, ProductID: product.ID}).Error)

	added, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, added)

	var count int64
	testDB.Model(&model.Wishlist{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
