package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/db"
)

func setupSellerServiceTest(t *testing.T) (SellerService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sellerRepo := repository.NewSellerRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	sellerService := NewSellerService(sellerRepo, userRepo)

	email := "applicant@example.com"
	user := &model.User{
		FullName: "Test Applicant",
		Email:    &email,
		Roles:    model.RoleSet{model.RoleCustomer},
	}
	testDB.Create(user)

	return sellerService, user, testDB
}

func testApplication() SellerInput {
	return SellerInput{
		StoreName:     "Spice Route",
		Description:   "Regional spices and condiments",
		BusinessEmail: "contact@spiceroute.example.com",
		BusinessPhone: "+919876543210",
		Address:       "12 Market Road, Pune",
		GSTNumber:     "27AAAAA0000A1Z5",
		PANNumber:     "AAAAA0000A",
	}
}

func TestSellerService_Apply(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusPending, seller.Status)
	assert.Equal(t, "spice-route", seller.StoreSlug)
}

func TestSellerService_Apply_Duplicate(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	_, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	_, err = sellerService.Apply(user.ID, testApplication())
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestSellerService_UpdateStatus_ApprovalGrantsRole(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	updated, err := sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusApproved, updated.Status)
	assert.NotNil(t, updated.ReviewedAt)

	var owner model.User
	testDB.First(&owner, user.ID)
	assert.True(t, owner.Roles.Has(model.RoleSeller))
	assert.True(t, owner.Roles.Has(model.RoleCustomer))
}

func TestSellerService_UpdateStatus_ApprovalIsIdempotent(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)
	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	var owner model.User
	testDB.First(&owner, user.ID)

	count := 0
	for _, role := range owner.Roles {
		if role == model.RoleSeller {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSellerService_UpdateStatus_RejectionRemovesRole(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusSuspended, "policy violation")
	require.NoError(t, err)

	var owner model.User
	testDB.First(&owner, user.ID)
	assert.False(t, owner.Roles.Has(model.RoleSeller))
	assert.True(t, owner.Roles.Has(model.RoleCustomer))
}

func TestSellerService_UpdateStatus_InvalidStatus(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatus("DELETED"), "")
	assert.ErrorIs(t, err, ErrInvalidSellerStatus)
}

func TestSellerService_Resubmit(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	// Pending applications cannot be resubmitted
	_, err = sellerService.Resubmit(user.ID, testApplication())
	assert.ErrorIs(t, err, ErrSellerNotRejected)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusRejected, "incomplete documents")
	require.NoError(t, err)

	input := testApplication()
	input.Description = "Updated description with documents"
	resubmitted, err := sellerService.Resubmit(user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusPending, resubmitted.Status)
	assert.Nil(t, resubmitted.ReviewedAt)
	assert.Empty(t, resubmitted.ReviewNote)
	assert.Equal(t, "Updated description with documents", resubmitted.Description)
}

func TestSellerService_UpdateProfile_OnlyWhileApproved(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	input := SellerInput{Description: "New description"}
	_, err = sellerService.UpdateProfile(user.ID, input)
	assert.ErrorIs(t, err, ErrSellerNotApproved)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	updated, err := sellerService.UpdateProfile(user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "New description", updated.Description)
}

func TestSellerService_WithdrawAndRestore(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	err = sellerService.Withdraw(user.ID)
	require.NoError(t, err)

	_, err = sellerService.GetByUserID(user.ID)
	assert.ErrorIs(t, err, ErrSellerNotFound)

	var owner model.User
	testDB.First(&owner, user.ID)
	assert.False(t, owner.Roles.Has(model.RoleSeller))

	// Restore brings the application back into review
	restored, err := sellerService.Restore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusPending, restored.Status)
}

func TestSellerService_Withdraw_RequiresApproval(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	// A pending application cannot be withdrawn
	err = sellerService.Withdraw(user.ID)
	assert.ErrorIs(t, err, ErrSellerNotApproved)

	// Nor a suspended one
	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusSuspended, "policy violation")
	require.NoError(t, err)
	err = sellerService.Withdraw(user.ID)
	assert.ErrorIs(t, err, ErrSellerNotApproved)

	// The profile is still there
	found, err := sellerService.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusSuspended, found.Status)
}

func TestSellerService_Restore_RequiresApprovedAtWithdrawal(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	// Soft-delete the pending application directly, as an admin removal would
	require.NoError(t, testDB.Delete(&model.Seller{}, seller.ID).Error)

	_, err = sellerService.Restore(user.ID)
	assert.ErrorIs(t, err, ErrSellerNotApproved)
}

func TestSellerService_List_FilterByStatus(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	otherEmail := "second@example.com"
	other := &model.User{FullName: "Second", Email: &otherEmail}
	testDB.Create(other)

	input := testApplication()
	input.StoreName = "Corner Shop"
	input.GSTNumber = "07BBBBB1111B2Z6"
	_, err = sellerService.Apply(other.ID, input)
	require.NoError(t, err)

	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	pending, total, err := sellerService.List(repository.SellerFilter{Status: model.SellerStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, "Corner Shop", pending[0].StoreName)
}

func TestSellerService_List_SearchByOwnerEmail(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	_, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	// Admin free-text search reaches the owning account's email too
	sellers, total, err := sellerService.List(repository.SellerFilter{Search: "applicant@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sellers, 1)
	assert.Equal(t, "Spice Route", sellers[0].StoreName)

	_, total, err = sellerService.List(repository.SellerFilter{Search: "nobody@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestSellerService_AdminDeleteAndRestore(t *testing.T) {
	sellerService, user, testDB := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)
	_, err = sellerService.UpdateStatus(seller.ID, model.SellerStatusApproved, "")
	require.NoError(t, err)

	require.NoError(t, sellerService.AdminDelete(seller.ID))

	_, err = sellerService.GetByUserID(user.ID)
	assert.ErrorIs(t, err, ErrSellerNotFound)

	var owner model.User
	testDB.First(&owner, user.ID)
	assert.False(t, owner.Roles.Has(model.RoleSeller))

	// Restore keeps the prior status and re-grants the role with it
	restored, err := sellerService.AdminRestore(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusApproved, restored.Status)

	testDB.First(&owner, user.ID)
	assert.True(t, owner.Roles.Has(model.RoleSeller))
}

func TestSellerService_AdminDelete_NoStatusGate(t *testing.T) {
	sellerService, user, _ := setupSellerServiceTest(t)

	seller, err := sellerService.Apply(user.ID, testApplication())
	require.NoError(t, err)

	// A pending application can be removed by an admin
	require.NoError(t, sellerService.AdminDelete(seller.ID))

	// And comes back still pending
	restored, err := sellerService.AdminRestore(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SellerStatusPending, restored.Status)
}
