package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// WishlistItemDTO is one saved listing with enough data to render a card.
type WishlistItemDTO struct {
	ProductID     uuid.UUID           `json:"product_id"`
	Name          string              `json:"name"`
	Image         string              `json:"image,omitempty"`
	CurrentPrice  decimal.Decimal     `json:"current_price"`
	OriginalPrice decimal.Decimal     `json:"original_price"`
	Status        enums.ProductStatus `json:"status"`
	AddedAt       time.Time           `json:"added_at"`
}

// WishlistDTO is the user's full wishlist.
type WishlistDTO struct {
	Items []WishlistItemDTO `json:"items"`
}
