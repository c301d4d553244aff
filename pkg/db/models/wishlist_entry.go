package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry marks a listing a buyer wants to keep an eye on.
type WishlistEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralisation.
func (WishlistEntry) TableName() string { return "wishlist_entries" }
