package repository

import (
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role   model.Role
	Status model.UserStatus
	Search string // matches full name, email, phone
	Page   int
	Limit  int
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByIDWithSeller(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByPhone(phone string) (*model.User, error)
	FindAll(filter UserFilter) ([]model.User, int64, error)
	Update(user *model.User) error
	UpdateRoles(id uint, roles model.RoleSet) error
	UpdateStatus(id uint, status model.UserStatus) error
	Delete(id uint) error
	// FindDeletedByContact looks up a soft-deleted account by email or phone.
	FindDeletedByContact(target string, isEmail bool) (*model.User, error)
	FindDeletedByID(id uint) (*model.User, error)
	Restore(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"phone": user.Phone,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
			"phone": user.Phone,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByIDWithSeller(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID with seller profile in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Preload("Seller").First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID with seller profile in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByPhone(phone string) (*model.User, error) {
	logger.Debug("Finding user by phone in database", map[string]interface{}{
		"phone": phone,
	})

	var user model.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(filter UserFilter) ([]model.User, int64, error) {
	logger.Debug("Listing users in database", map[string]interface{}{
		"role":   filter.Role,
		"status": filter.Status,
		"search": filter.Search,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	query := r.db.Model(&model.User{})

	if filter.Role != "" {
		// Roles is a JSON array; a LIKE on the quoted value works for both
		// postgres jsonb and the sqlite test database.
		query = query.Where("roles LIKE ?", "%\""+string(filter.Role)+"\"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count users in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Limit)
		}
	}

	var users []model.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.Error("Failed to list users in database", err)
		return nil, 0, err
	}

	logger.Debug("Users listed in database", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	return nil
}

func (r *userRepository) UpdateRoles(id uint, roles model.RoleSet) error {
	logger.Debug("Updating user roles in database", map[string]interface{}{
		"user_id": id,
		"roles":   roles,
	})

	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("roles", roles).Error; err != nil {
		logger.Error("Failed to update user roles in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	return nil
}

func (r *userRepository) UpdateStatus(id uint, status model.UserStatus) error {
	logger.Debug("Updating user status in database", map[string]interface{}{
		"user_id": id,
		"status":  status,
	})

	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		logger.Error("Failed to update user status in database", err, map[string]interface{}{
			"user_id": id,
			"status":  status,
		})
		return err
	}

	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	return nil
}

func (r *userRepository) FindDeletedByContact(target string, isEmail bool) (*model.User, error) {
	logger.Debug("Finding soft-deleted user by contact in database", map[string]interface{}{
		"target":   target,
		"is_email": isEmail,
	})

	column := "phone"
	if isEmail {
		column = "email"
	}

	var user model.User
	err := r.db.Unscoped().
		Where(column+" = ?", target).
		Where("deleted_at IS NOT NULL").
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindDeletedByID(id uint) (*model.User, error) {
	logger.Debug("Finding soft-deleted user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Restore(id uint) error {
	logger.Debug("Restoring user in database", map[string]interface{}{
		"user_id": id,
	})

	err := r.db.Unscoped().Model(&model.User{}).Where("id = ?", id).Update("deleted_at", nil).Error
	if err != nil {
		logger.Error("Failed to restore user in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	return nil
}
