package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/pkg/util"
)

type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`              // category ID
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`  // display name
	Slug        string         `gorm:"uniqueIndex" json:"slug"`           // URL identifier
	Description string         `gorm:"type:text" json:"description"`      // optional description
	ImageURL    string         `json:"image_url"`                         // banner image
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate generates a unique slug when none is set.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug != "" {
		return nil
	}

	baseSlug := util.Slugify(c.Name)
	slug := baseSlug

	counter := 1
	for {
		var count int64
		if err := tx.Model(&Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			break
		}

		counter++
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
	}

	c.Slug = slug
	return nil
}
