package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Seller{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Wishlist{},
		&model.Address{},
		&model.Review{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin ensures an admin account exists for the given email. Safe to run
// on every startup: an existing account is promoted, not duplicated.
func SeedAdmin(email string) error {
	if email == "" {
		logger.Warn("Admin email not configured, skipping admin seed")
		return nil
	}

	var user model.User
	err := DB.Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{
			FullName: "Administrator",
			Email:    &email,
			Roles:    model.RoleSet{model.RoleAdmin, model.RoleCustomer},
			Status:   model.UserStatusActive,
		}
		if err := DB.Create(&user).Error; err != nil {
			logger.Error("Failed to create admin account", err)
			return err
		}

		logger.Info("Admin account created", map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil
	}
	if err != nil {
		return err
	}

	if user.Roles.Has(model.RoleAdmin) {
		logger.Debug("Admin account already present, skipping seed", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}

	user.Roles = user.Roles.Add(model.RoleAdmin)
	if err := DB.Model(&user).Update("roles", user.Roles).Error; err != nil {
		logger.Error("Failed to promote admin account", err)
		return err
	}

	logger.Info("Existing account promoted to admin", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return nil
}
