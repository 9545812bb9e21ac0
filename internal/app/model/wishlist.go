package model

import "time"

// Wishlist holds one row per saved product per user.
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_wishlists_user_product,unique" json:"user_id"`
	ProductID uint      `gorm:"not null;index:idx_wishlists_user_product,unique" json:"product_id"`
	Product   Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}
