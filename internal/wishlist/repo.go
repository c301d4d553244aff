package wishlist

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

// Repository exposes wishlist persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry. It reports whether a new entry was
// written so callers can reject duplicate saves.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
INSERT INTO wishlist_entries (id, user_id, product_id, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_id) DO NOTHING
`, uuid.New(), userID, productID, time.Now().UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistEntry{}).
		Error
}

// ListItemIDs returns all saved product ids for the user.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("product_id", &ids).
		Error
	return ids, err
}

type wishlistItemRecord struct {
	ProductID     uuid.UUID
	Name          string
	Images        string
	CurrentPrice  decimal.Decimal
	OriginalPrice decimal.Decimal
	Status        enums.ProductStatus
	AddedAt       time.Time
}

// ListItems returns the user's wishlist joined with listing data, newest
// first. Entries whose listing was deleted are dropped by the join.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]WishlistItemDTO, error) {
	var records []wishlistItemRecord
	err := r.db.WithContext(ctx).Raw(`
SELECT w.product_id,
       p.name,
       p.images,
       p.current_price,
       p.original_price,
       p.status,
       w.created_at AS added_at
FROM wishlist_entries w
JOIN products p ON p.id = w.product_id
WHERE w.user_id = ?
ORDER BY w.created_at DESC
`, userID).Scan(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]WishlistItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, WishlistItemDTO{
			ProductID:     record.ProductID,
			Name:          record.Name,
			Image:         firstImageURL(record.Images),
			CurrentPrice:  record.CurrentPrice,
			OriginalPrice: record.OriginalPrice,
			Status:        record.Status,
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
