package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

const defaultOrderPageSize = 20

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds an order repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	return rows, err
}

func (r *gormRepository) MarkProductSoldOut(ctx context.Context, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status <> ?", productID, enums.ProductStatusSoldOut).
		Update("status", enums.ProductStatusSoldOut)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) DeleteCartEntry(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *gormRepository) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]models.Order, pagination.Meta, error) {
	params = pagination.Normalize(params, defaultOrderPageSize)

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("buyer_id = ?", buyerID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Order
	err := base().
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return rows, pagination.BuildMeta(params, int(total), len(rows)), nil
}

func (r *gormRepository) ListAdminOrders(ctx context.Context, query orderListQuery) (*AdminOrderPage, error) {
	params := pagination.Normalize(query.Pagination, defaultOrderPageSize)

	base := func() *gorm.DB {
		qb := r.db.WithContext(ctx).Model(&models.Order{})
		return applyOrderFilters(qb, query.Filters)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	// The aggregate covers the whole filtered set, not just the page.
	var totalAmount decimal.Decimal
	if err := base().
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalAmount).
		Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := base().
		Order(orderSortClause(query.Sort)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &AdminOrderPage{
		Orders:      rows,
		Meta:        pagination.BuildMeta(params, int(total), len(rows)),
		TotalAmount: totalAmount,
	}, nil
}

func (r *gormRepository) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func applyOrderFilters(qb *gorm.DB, filters OrderListFilters) *gorm.DB {
	if filters.DeliveryStatus != nil {
		qb = qb.Where("delivery_status = ?", *filters.DeliveryStatus)
	}
	if filters.PaymentStatus != nil {
		qb = qb.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.BuyerID != nil {
		qb = qb.Where("buyer_id = ?", *filters.BuyerID)
	}
	if filters.PlacedAfter != nil {
		qb = qb.Where("created_at >= ?", *filters.PlacedAfter)
	}
	if filters.PlacedBefore != nil {
		qb = qb.Where("created_at <= ?", *filters.PlacedBefore)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(CAST(id AS TEXT)) LIKE ? OR LOWER(CAST(buyer_id AS TEXT)) LIKE ? OR LOWER(payment_id) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	return qb
}

func orderSortClause(sort OrderSort) string {
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	switch sort.Field {
	case SortFieldAmount:
		return "amount " + direction
	case SortFieldDate:
		return "created_at " + direction
	default:
		return "created_at DESC"
	}
}
