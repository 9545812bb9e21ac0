package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartStatus string // cart lifecycle status

const (
	CartStatusActive    CartStatus = "ACTIVE"    // the user's working cart
	CartStatusOrdered   CartStatus = "ORDERED"   // checked out, frozen
	CartStatusAbandoned CartStatus = "ABANDONED" // idle past the abandonment window
)

// CanTransitionTo reports whether a cart in this status may move to target.
// ORDERED is terminal; ABANDONED carts revive back to ACTIVE on user activity.
func (s CartStatus) CanTransitionTo(target CartStatus) bool {
	switch s {
	case CartStatusActive:
		return target == CartStatusOrdered || target == CartStatusAbandoned
	case CartStatusAbandoned:
		return target == CartStatusActive
	default:
		return false
	}
}

type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                   // cart ID
	UserID    uint           `gorm:"not null;index" json:"user_id"`                          // owning user
	User      User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status    CartStatus     `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`  // lifecycle status
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"` // bumped on every item change; drives abandonment
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// Total sums PriceAtTime x Quantity over the loaded items. Snapshots are
// used, never the products' current prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type CartItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`                                                     // line item ID
	CartID      uint            `gorm:"not null;index:idx_cart_items_cart_product,unique" json:"cart_id"`         // owning cart
	ProductID   uint            `gorm:"not null;index:idx_cart_items_cart_product,unique" json:"product_id"`      // product (one line per product per cart)
	Product     Product         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity    int             `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`                   // units
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_time"`                         // price snapshot taken when the line was created
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is the snapshot price times the quantity.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
