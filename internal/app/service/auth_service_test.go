package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/db"
	redispkg "github.com/rsharma/bazario-backend/pkg/redis"
	"github.com/rsharma/bazario-backend/pkg/util"
)

const (
	testJWTSecret = "test-jwt-secret"
	testOTPExpiry = 5 * time.Minute
)

func setupAuthServiceTest(t *testing.T) (AuthService, *miniredis.Miniredis, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	userRepo := repository.NewUserRepository(testDB)
	codeRepo := repository.NewVerificationCodeRepository(client)
	authService := NewAuthService(userRepo, codeRepo, testJWTSecret, 24*time.Hour, 6, testOTPExpiry)

	return authService, mr, testDB
}

func TestAuthService_SendCode_Email(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	code, err := authService.SendCode(context.Background(), "user@example.com", "")
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestAuthService_SendCode_Phone(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	code, err := authService.SendCode(context.Background(), "", "+919876543210")
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestAuthService_SendCode_ContactValidation(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	// Neither contact
	_, err := authService.SendCode(ctx, "", "")
	assert.ErrorIs(t, err, ErrContactRequired)

	// Both contacts
	_, err = authService.SendCode(ctx, "user@example.com", "+919876543210")
	assert.ErrorIs(t, err, ErrContactRequired)

	// Malformed email
	_, err = authService.SendCode(ctx, "not-an-email", "")
	assert.ErrorIs(t, err, ErrInvalidContact)

	// Malformed phone
	_, err = authService.SendCode(ctx, "", "abc123")
	assert.ErrorIs(t, err, ErrInvalidContact)
}

func TestAuthService_VerifyCode_CreatesGuestUser(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	code, err := authService.SendCode(ctx, "newcomer@example.com", "")
	require.NoError(t, err)

	result, err := authService.VerifyCode(ctx, "newcomer@example.com", "", code)
	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "Guest", result.User.FullName)
	assert.True(t, result.User.Roles.Has(model.RoleCustomer))
	assert.NotEmpty(t, result.Token)

	claims, err := util.ValidateToken(result.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Contains(t, claims.Roles, string(model.RoleCustomer))

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_VerifyCode_ExistingUser(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	email := "regular@example.com"
	user := &model.User{FullName: "Regular User", Email: &email}
	testDB.Create(user)

	code, err := authService.SendCode(ctx, email, "")
	require.NoError(t, err)

	result, err := authService.VerifyCode(ctx, email, "", code)
	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_VerifyCode_WrongCode(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, err := authService.SendCode(ctx, "user@example.com", "")
	require.NoError(t, err)

	_, err = authService.VerifyCode(ctx, "user@example.com", "", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_VerifyCode_MostRecentWins(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	first, err := authService.SendCode(ctx, "user@example.com", "")
	require.NoError(t, err)
	second, err := authService.SendCode(ctx, "user@example.com", "")
	require.NoError(t, err)

	// Both codes are still live; the newer one verifies
	result, err := authService.VerifyCode(ctx, "user@example.com", "", second)
	require.NoError(t, err)
	assert.NotNil(t, result)

	// Every code for the target is purged after a successful login
	_, err = authService.VerifyCode(ctx, "user@example.com", "", first)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_VerifyCode_Expired(t *testing.T) {
	authService, mr, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	code, err := authService.SendCode(ctx, "user@example.com", "")
	require.NoError(t, err)

	// Rewrite the stored entry as already expired while the redis key
	// itself is still alive
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	codeRepo := repository.NewVerificationCodeRepository(client)
	require.NoError(t, codeRepo.Purge(ctx, "user@example.com"))
	require.NoError(t, codeRepo.Push(ctx, "user@example.com", repository.VerificationCode{
		Code:      code,
		CreatedAt: time.Now().Add(-10 * time.Minute),
		ExpiresAt: time.Now().Add(-5 * time.Minute),
	}, time.Minute))

	_, err = authService.VerifyCode(ctx, "user@example.com", "", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestAuthService_VerifyCode_RestrictedAccount(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	email := "blocked@example.com"
	user := &model.User{FullName: "Blocked User", Email: &email, Status: model.UserStatusBlocked}
	testDB.Create(user)

	code, err := authService.SendCode(ctx, email, "")
	require.NoError(t, err)

	_, err = authService.VerifyCode(ctx, email, "", code)
	assert.ErrorIs(t, err, ErrAccountRestricted)

	// The blocked attempt did not burn the code; it still signs the user in
	// once the block is lifted
	require.NoError(t, testDB.Model(user).Update("status", model.UserStatusActive).Error)
	result, err := authService.VerifyCode(ctx, email, "", code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)

	email := "user@example.com"
	user := &model.User{FullName: "Guest", Email: &email}
	testDB.Create(user)

	updated, err := authService.UpdateProfile(user.ID, "Asha Verma", "https://cdn.example.com/p.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", updated.FullName)
	assert.Equal(t, "https://cdn.example.com/p.jpg", updated.ProfileImage)

	_, err = authService.UpdateProfile(9999, "Nobody", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateUserStatus(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)

	email := "user@example.com"
	user := &model.User{FullName: "Guest", Email: &email}
	testDB.Create(user)

	updated, err := authService.UpdateUserStatus(user.ID, model.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusSuspended, updated.Status)

	_, err = authService.UpdateUserStatus(user.ID, model.UserStatus("UNKNOWN"))
	assert.ErrorIs(t, err, ErrInvalidUserStatus)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	authService, mr, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	redispkg.SetClient(client)

	code, err := authService.SendCode(ctx, "user@example.com", "")
	require.NoError(t, err)
	result, err := authService.VerifyCode(ctx, "user@example.com", "", code)
	require.NoError(t, err)

	err = authService.Logout(ctx, result.Token)
	require.NoError(t, err)

	revoked, err := redispkg.IsTokenBlacklisted(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Garbage tokens are a no-op
	err = authService.Logout(ctx, "not-a-token")
	assert.NoError(t, err)
}

func TestAuthService_ListUsers_FilterByRole(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)

	adminEmail := "admin@example.com"
	testDB.Create(&model.User{
		FullName: "Admin",
		Email:    &adminEmail,
		Roles:    model.RoleSet{model.RoleAdmin, model.RoleCustomer},
	})
	customerEmail := "customer@example.com"
	testDB.Create(&model.User{FullName: "Customer", Email: &customerEmail})

	admins, total, err := authService.ListUsers(repository.UserFilter{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, admins, 1)
	assert.Equal(t, "Admin", admins[0].FullName)
}

func TestAuthService_DeleteAccount_SoftDeletesAndRevokes(t *testing.T) {
	authService, mr, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	redispkg.SetClient(client)

	code, err := authService.SendCode(ctx, "leaver@example.com", "")
	require.NoError(t, err)
	result, err := authService.VerifyCode(ctx, "leaver@example.com", "", code)
	require.NoError(t, err)

	err = authService.DeleteAccount(ctx, result.User.ID, result.Token)
	require.NoError(t, err)

	// Gone from scoped queries, still present unscoped
	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 0, count)
	testDB.Unscoped().Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	revoked, err := redispkg.IsTokenBlacklisted(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = authService.DeleteAccount(ctx, 9999, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_VerifyCode_RestoresDeletedAccount(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	email := "returning@example.com"
	code, err := authService.SendCode(ctx, email, "")
	require.NoError(t, err)
	first, err := authService.VerifyCode(ctx, email, "", code)
	require.NoError(t, err)

	err = authService.DeleteAccount(ctx, first.User.ID, "")
	require.NoError(t, err)

	// Verifying the same contact un-deletes the old account
	code, err = authService.SendCode(ctx, email, "")
	require.NoError(t, err)
	second, err := authService.VerifyCode(ctx, email, "", code)
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_AdminDeleteAndRestoreUser(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)

	email := "member@example.com"
	user := &model.User{FullName: "Member", Email: &email}
	testDB.Create(user)

	require.NoError(t, authService.AdminDeleteUser(user.ID))

	_, err := authService.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	restored, err := authService.AdminRestoreUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Member", found.FullName)

	// Missing IDs surface as not found
	assert.ErrorIs(t, authService.AdminDeleteUser(9999), ErrUserNotFound)
	_, err = authService.AdminRestoreUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
