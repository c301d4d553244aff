package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// CartItemDTO is one cart line joined with its listing snapshot.
type CartItemDTO struct {
	ProductID     uuid.UUID           `json:"product_id"`
	Name          string              `json:"name"`
	Image         string              `json:"image,omitempty"`
	CurrentPrice  decimal.Decimal     `json:"current_price"`
	OriginalPrice decimal.Decimal     `json:"original_price"`
	Status        enums.ProductStatus `json:"status"`
	SellerID      uuid.UUID           `json:"seller_id"`
	AddedAt       time.Time           `json:"added_at"`
}

// CartDTO is the buyer's full cart with the running total of lines that
// are still purchasable.
type CartDTO struct {
	Items       []CartItemDTO   `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
