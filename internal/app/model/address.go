package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`            // address ID
	UserID     uint           `gorm:"not null;index" json:"user_id"`   // owning user
	Label      string         `gorm:"type:varchar(50)" json:"label"`   // e.g. "Home", "Office"
	Recipient  string         `gorm:"not null" json:"recipient"`       // recipient name
	Phone      string         `gorm:"not null" json:"phone"`           // contact phone
	Line1      string         `gorm:"not null" json:"line1"`           // street address
	Line2      string         `json:"line2"`                           // apartment, floor, landmark
	City       string         `gorm:"not null" json:"city"`
	State      string         `gorm:"not null" json:"state"`
	PostalCode string         `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string         `gorm:"type:varchar(60);default:'India'" json:"country"`
	IsDefault  bool           `gorm:"default:false" json:"is_default"` // at most one per user, enforced in service
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
