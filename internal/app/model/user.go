package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string // account role

const (
	RoleCustomer Role = "CUSTOMER" // default role for every account
	RoleSeller   Role = "SELLER"   // granted when a seller application is approved
	RoleAdmin    Role = "ADMIN"    // platform operators
)

type UserStatus string // account lifecycle status

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusDisabled  UserStatus = "DISABLED"
	UserStatusBlocked   UserStatus = "BLOCKED"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// CanLogin reports whether an account in this status may sign in.
func (s UserStatus) CanLogin() bool {
	return s == UserStatusActive
}

// RoleSet is stored as a JSON array. An account always holds at least
// RoleCustomer; Add and Remove are idempotent.
type RoleSet []Role

// Value implements database/sql/driver.Valuer.
func (r RoleSet) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan implements database/sql.Scanner.
func (r *RoleSet) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan RoleSet")
		}
	}

	return json.Unmarshal(bytes, r)
}

// Has reports whether the set contains role.
func (r RoleSet) Has(role Role) bool {
	for _, existing := range r {
		if existing == role {
			return true
		}
	}
	return false
}

// Add returns the set with role included. Adding a role already present
// returns the set unchanged.
func (r RoleSet) Add(role Role) RoleSet {
	if r.Has(role) {
		return r
	}
	return append(r, role)
}

// Remove returns the set without role.
func (r RoleSet) Remove(role Role) RoleSet {
	result := make(RoleSet, 0, len(r))
	for _, existing := range r {
		if existing != role {
			result = append(result, existing)
		}
	}
	return result
}

// Strings returns the roles as plain strings, for JWT claims.
func (r RoleSet) Strings() []string {
	result := make([]string, len(r))
	for i, role := range r {
		result[i] = string(role)
	}
	return result
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // user ID
	FullName     string         `gorm:"not null" json:"full_name"`                            // display name ("Guest" until updated)
	Email        *string        `gorm:"uniqueIndex" json:"email,omitempty"`                   // email (nullable, phone-only accounts)
	Phone        *string        `gorm:"uniqueIndex" json:"phone,omitempty"`                   // phone (nullable, email-only accounts)
	Roles        RoleSet        `gorm:"type:jsonb;default:'[\"CUSTOMER\"]'" json:"roles"`     // role set
	Status       UserStatus     `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"` // account status
	ProfileImage string         `json:"profile_image"`                                        // profile image URL
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Seller    *Seller   `gorm:"foreignKey:UserID" json:"seller,omitempty"`  // seller profile, if applied
	Addresses []Address `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate guarantees every account carries the customer role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Roles) == 0 {
		u.Roles = RoleSet{RoleCustomer}
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
