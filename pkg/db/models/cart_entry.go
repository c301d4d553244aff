package models

import (
	"time"

	"github.com/google/uuid"
)

// CartEntry links a buyer to a listing they intend to purchase.
// A buyer can hold each listing at most once.
type CartEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralisation.
func (CartEntry) TableName() string { return "cart_entries" }
