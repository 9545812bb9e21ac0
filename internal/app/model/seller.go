package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/pkg/util"
)

type SellerStatus string // seller application review status

const (
	SellerStatusPending   SellerStatus = "PENDING"   // submitted, awaiting review
	SellerStatusApproved  SellerStatus = "APPROVED"  // selling privileges granted
	SellerStatusRejected  SellerStatus = "REJECTED"  // rejected, may resubmit
	SellerStatusSuspended SellerStatus = "SUSPENDED" // privileges revoked by admin
)

// ValidSellerStatuses lists every status an admin may assign.
var ValidSellerStatuses = []SellerStatus{
	SellerStatusPending,
	SellerStatusApproved,
	SellerStatusRejected,
	SellerStatusSuspended,
}

// IsValid reports whether s is a known seller status.
func (s SellerStatus) IsValid() bool {
	for _, valid := range ValidSellerStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

type Seller struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // seller profile ID
	UserID        uint           `gorm:"uniqueIndex;not null" json:"user_id"`                        // owning account (one application per account)
	User          User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StoreName     string         `gorm:"not null" json:"store_name"`                                 // public store name
	StoreSlug     string         `gorm:"uniqueIndex" json:"store_slug"`                              // URL identifier, generated from StoreName
	Description   string         `gorm:"type:text" json:"description"`                               // store introduction
	BusinessEmail string         `json:"business_email"`                                             // contact email for the store
	BusinessPhone string         `json:"business_phone"`                                             // contact phone for the store
	Address       string         `gorm:"type:text" json:"address"`                                   // registered business address
	GSTNumber     string         `gorm:"uniqueIndex" json:"gst_number"`                              // tax registration number
	PANNumber     string         `json:"pan_number"`                                                 // tax ID
	Status        SellerStatus   `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`     // review status
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`                                      // last admin decision time
	ReviewNote    string         `gorm:"type:text" json:"review_note,omitempty"`                     // admin note, shown on rejection
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:SellerID" json:"products,omitempty"`
}

func (Seller) TableName() string {
	return "sellers"
}

// BeforeCreate generates a unique store slug when none is set.
func (s *Seller) BeforeCreate(tx *gorm.DB) error {
	if s.StoreSlug != "" {
		return nil
	}

	baseSlug := util.Slugify(s.StoreName)
	slug := baseSlug

	counter := 1
	for {
		var count int64
		if err := tx.Model(&Seller{}).Where("store_slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			break
		}

		counter++
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
	}

	s.StoreSlug = slug
	return nil
}
