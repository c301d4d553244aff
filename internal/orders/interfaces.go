package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// Repository defines the persistence unit of work for order placement and
// the order read paths. Placement touches orders, products, and cart rows,
// so they live behind one transactional boundary.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	MarkProductSoldOut(ctx context.Context, productID uuid.UUID) (bool, error)
	DeleteCartEntry(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]models.Order, pagination.Meta, error)
	ListAdminOrders(ctx context.Context, query orderListQuery) (*AdminOrderPage, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userDirectory interface {
	FindByIDAndRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}
