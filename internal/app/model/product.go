package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/pkg/util"
)

// StringArray stores a JSON array in a single column. Used for product
// image URL lists.
type StringArray []string

// Value implements database/sql/driver.Valuer.
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner.
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringArray")
		}
	}

	return json.Unmarshal(bytes, s)
}

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`                              // product ID
	SellerID    uint            `gorm:"not null;index" json:"seller_id"`                   // owning seller
	Seller      Seller          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`                 // category
	Category    Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Name        string          `gorm:"not null;index" json:"name"`                        // product name
	Slug        string          `gorm:"uniqueIndex" json:"slug"`                           // URL identifier
	SKU         string          `gorm:"uniqueIndex;not null" json:"sku"`                   // stock keeping unit, generated
	Description string          `gorm:"type:text" json:"description"`                      // product description
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`          // current listed price
	Stock       int             `gorm:"not null;default:0" json:"stock"`                   // units available
	Images      StringArray     `gorm:"type:jsonb" json:"images"`                          // image URLs
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`               // listed/delisted flag
	AvgRating   float64         `gorm:"default:0" json:"avg_rating"`                       // denormalized review average
	NumReviews  int             `gorm:"default:0" json:"num_reviews"`                      // denormalized review count
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate generates the SKU and slug when unset.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.SKU == "" {
		sku, err := util.GenerateSKU(p.Name)
		if err != nil {
			return err
		}
		p.SKU = sku
	}

	if p.Slug == "" {
		base := util.Slugify(p.Name)
		slug := base

		counter := 1
		for {
			var count int64
			if err := tx.Model(&Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				break
			}

			counter++
			slug = fmt.Sprintf("%s-%d", base, counter)
		}

		p.Slug = slug
	}

	return nil
}
