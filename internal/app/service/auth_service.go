package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/pkg/logger"
	"github.com/rsharma/bazario-backend/pkg/redis"
	"github.com/rsharma/bazario-backend/pkg/util"
)

var (
	ErrContactRequired   = errors.New("provide exactly one of email or phone")
	ErrInvalidContact    = errors.New("invalid email or phone format")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrCodeExpired       = errors.New("verification code has expired")
	ErrAccountRestricted = errors.New("account is not allowed to sign in")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidUserStatus = errors.New("invalid user status")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// VerifyResult is the outcome of a successful code verification.
type VerifyResult struct {
	User      *model.User
	Token     string
	IsNewUser bool // account was created by this verification
}

type AuthService interface {
	// SendCode issues a one-time login code to an email or phone (exactly
	// one must be set) and returns the code for delivery.
	SendCode(ctx context.Context, email, phone string) (string, error)
	// VerifyCode checks the code against the most recent one issued to the
	// target, purges the target's codes, and signs the user in, creating a
	// guest account on first login.
	VerifyCode(ctx context.Context, email, phone, code string) (*VerifyResult, error)
	// Logout revokes the token for the remainder of its lifetime.
	Logout(ctx context.Context, token string) error
	// DeleteAccount soft-deletes the account and revokes the session. The
	// account comes back if its owner verifies a code for the same contact.
	DeleteAccount(ctx context.Context, userID uint, token string) error

	GetUserByID(id uint) (*model.User, error)
	GetUserWithSeller(id uint) (*model.User, error)
	UpdateProfile(userID uint, fullName, profileImage string) (*model.User, error)

	// Admin operations.
	ListUsers(filter repository.UserFilter) ([]model.User, int64, error)
	UpdateUserStatus(userID uint, status model.UserStatus) (*model.User, error)
	// AdminDeleteUser soft-deletes any account; AdminRestoreUser brings a
	// soft-deleted one back without waiting for the owner to sign in.
	AdminDeleteUser(userID uint) error
	AdminRestoreUser(userID uint) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	codeRepo  repository.VerificationCodeRepository
	jwtSecret string
	jwtExpiry time.Duration
	otpLength int
	otpExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.VerificationCodeRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	otpLength int,
	otpExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		codeRepo:  codeRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		otpLength: otpLength,
		otpExpiry: otpExpiry,
	}
}

// resolveContact validates that exactly one of email/phone is set and
// returns the normalized target.
func resolveContact(email, phone string) (string, bool, error) {
	if (email == "") == (phone == "") {
		return "", false, ErrContactRequired
	}

	if email != "" {
		if !emailPattern.MatchString(email) {
			return "", false, ErrInvalidContact
		}
		return email, true, nil
	}

	if !phonePattern.MatchString(phone) {
		return "", false, ErrInvalidContact
	}
	return phone, false, nil
}

func (s *authService) SendCode(ctx context.Context, email, phone string) (string, error) {
	target, isEmail, err := resolveContact(email, phone)
	if err != nil {
		logger.Warn("Send code rejected: invalid contact", map[string]interface{}{
			"email": email,
			"phone": phone,
		})
		return "", err
	}

	logger.Info("Issuing verification code", map[string]interface{}{
		"target":   target,
		"is_email": isEmail,
	})

	code, err := util.GenerateOTP(s.otpLength)
	if err != nil {
		logger.Error("Failed to generate verification code", err)
		return "", err
	}

	now := time.Now()
	entry := repository.VerificationCode{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.otpExpiry),
	}

	if err := s.codeRepo.Push(ctx, target, entry, s.otpExpiry); err != nil {
		return "", err
	}

	logger.Info("Verification code issued", map[string]interface{}{
		"target":     target,
		"expires_at": entry.ExpiresAt,
	})
	return code, nil
}

func (s *authService) VerifyCode(ctx context.Context, email, phone, code string) (*VerifyResult, error) {
	target, isEmail, err := resolveContact(email, phone)
	if err != nil {
		return nil, err
	}

	logger.Info("Verifying code", map[string]interface{}{
		"target": target,
	})

	codes, err := s.codeRepo.List(ctx, target)
	if err != nil {
		return nil, err
	}

	// Codes are newest first; the first match decides the outcome, so an
	// expired newer code is not rescued by an older live one with the same
	// value.
	now := time.Now()
	var matched *repository.VerificationCode
	for i := range codes {
		if codes[i].Code == code {
			matched = &codes[i]
			break
		}
	}

	if matched == nil {
		logger.Warn("Verification failed: no matching code", map[string]interface{}{
			"target": target,
		})
		return nil, ErrInvalidCode
	}
	if matched.Expired(now) {
		logger.Warn("Verification failed: code expired", map[string]interface{}{
			"target":     target,
			"expired_at": matched.ExpiresAt,
		})
		return nil, ErrCodeExpired
	}

	user, isNew, err := s.findOrCreateUser(target, isEmail)
	if err != nil {
		return nil, err
	}

	// The status gate runs before the purge: a blocked login must not burn
	// the code, it was valid and unused.
	if !user.Status.CanLogin() {
		logger.Warn("Login blocked by account status", map[string]interface{}{
			"user_id": user.ID,
			"status":  user.Status,
		})
		return nil, ErrAccountRestricted
	}

	// A used code must never work twice, for either contact channel.
	purgeTargets := []string{target}
	if user.Email != nil && *user.Email != target {
		purgeTargets = append(purgeTargets, *user.Email)
	}
	if user.Phone != nil && *user.Phone != target {
		purgeTargets = append(purgeTargets, *user.Phone)
	}
	if err := s.codeRepo.Purge(ctx, purgeTargets...); err != nil {
		logger.Warn("Failed to purge verification codes after use", map[string]interface{}{
			"target": target,
		})
	}

	var claimEmail string
	if user.Email != nil {
		claimEmail = *user.Email
	}

	token, err := util.GenerateToken(user.ID, claimEmail, user.Roles.Strings(), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("User signed in", map[string]interface{}{
		"user_id":     user.ID,
		"is_new_user": isNew,
		"roles":       user.Roles,
	})

	return &VerifyResult{User: user, Token: token, IsNewUser: isNew}, nil
}

func (s *authService) findOrCreateUser(target string, isEmail bool) (*model.User, bool, error) {
	var (
		user *model.User
		err  error
	)
	if isEmail {
		user, err = s.userRepo.FindByEmail(target)
	} else {
		user, err = s.userRepo.FindByPhone(target)
	}

	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up user", err, map[string]interface{}{
			"target": target,
		})
		return nil, false, err
	}

	// Proving control of the contact is enough to un-delete a withdrawn
	// account; the tombstone just keeps it out of normal lookups.
	deleted, err := s.userRepo.FindDeletedByContact(target, isEmail)
	if err == nil {
		if err := s.userRepo.Restore(deleted.ID); err != nil {
			return nil, false, err
		}
		logger.Info("Soft-deleted account restored on login", map[string]interface{}{
			"user_id": deleted.ID,
		})
		return deleted, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	newUser := &model.User{
		FullName: "Guest",
		Roles:    model.RoleSet{model.RoleCustomer},
		Status:   model.UserStatusActive,
	}
	if isEmail {
		newUser.Email = &target
	} else {
		newUser.Phone = &target
	}

	if err := s.userRepo.Create(newUser); err != nil {
		return nil, false, err
	}

	logger.Info("Guest account created on first login", map[string]interface{}{
		"user_id": newUser.ID,
	})
	return newUser, true, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// Expired or malformed tokens need no blacklisting.
		logger.Debug("Logout with unusable token, nothing to revoke")
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, remaining); err != nil {
		logger.Error("Failed to blacklist token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID uint, token string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}

	// The session dies with the account.
	if token != "" {
		if err := s.Logout(ctx, token); err != nil {
			logger.Warn("Failed to revoke session after account deletion", map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	logger.Info("Account soft-deleted", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GetUserWithSeller(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithSeller(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, fullName, profileImage string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) ListUsers(filter repository.UserFilter) ([]model.User, int64, error) {
	return s.userRepo.FindAll(filter)
}

func (s *authService) UpdateUserStatus(userID uint, status model.UserStatus) (*model.User, error) {
	switch status {
	case model.UserStatusActive, model.UserStatusDisabled, model.UserStatusBlocked, model.UserStatusSuspended:
	default:
		return nil, ErrInvalidUserStatus
	}

	logger.Info("Updating user status", map[string]interface{}{
		"user_id": userID,
		"status":  status,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateStatus(user.ID, status); err != nil {
		return nil, err
	}

	user.Status = status
	return user, nil
}

func (s *authService) AdminDeleteUser(userID uint) error {
	logger.Info("Admin deleting user", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.userRepo.Delete(user.ID)
}

func (s *authService) AdminRestoreUser(userID uint) (*model.User, error) {
	logger.Info("Admin restoring user", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindDeletedByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.Restore(user.ID); err != nil {
		return nil, err
	}

	user.DeletedAt = gorm.DeletedAt{}
	return user, nil
}
