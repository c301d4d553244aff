package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a cart line. It reports whether a new line was written so
// callers can reject duplicate adds.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
INSERT INTO cart_entries (id, user_id, product_id, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_id) DO NOTHING
`, uuid.New(), userID, productID, time.Now().UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveItem drops a cart line regardless of prior state.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartEntry{}).
		Error
}

// Clear removes every cart line for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartEntry{}).
		Error
}

// PruneSoldOut drops cart lines whose listing has been sold in the meantime.
func (r *Repository) PruneSoldOut(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
DELETE FROM cart_entries
WHERE user_id = ?
  AND product_id IN (SELECT id FROM products WHERE status = ?)
`, userID, enums.ProductStatusSoldOut)
	return res.RowsAffected, res.Error
}

type cartItemRecord struct {
	ProductID     uuid.UUID
	Name          string
	Images        string
	CurrentPrice  decimal.Decimal
	OriginalPrice decimal.Decimal
	Status        enums.ProductStatus
	SellerID      uuid.UUID
	AddedAt       time.Time
}

// ListItems returns the user's cart lines joined with listing data,
// newest line first.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]CartItemDTO, error) {
	var records []cartItemRecord
	err := r.db.WithContext(ctx).Raw(`
SELECT c.product_id,
       p.name,
       p.images,
       p.current_price,
       p.original_price,
       p.status,
       p.seller_id,
       c.created_at AS added_at
FROM cart_entries c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = ?
ORDER BY c.created_at DESC
`, userID).Scan(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]CartItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, CartItemDTO{
			ProductID:     record.ProductID,
			Name:          record.Name,
			Image:         firstImageURL(record.Images),
			CurrentPrice:  record.CurrentPrice,
			OriginalPrice: record.OriginalPrice,
			Status:        record.Status,
			SellerID:      record.SellerID,
			AddedAt:       record.AddedAt,
		})
	}
	return items, nil
}

func firstImageURL(raw string) string {
	var images dbtypes.ImageList
	if err := images.Scan(raw); err != nil || len(images) == 0 {
		return ""
	}
	if images[0].URL != "" {
		return images[0].URL
	}
	return images[0].Filename
}
