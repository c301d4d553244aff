package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  products TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  payment_id TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  delivery_status TEXT NOT NULL DEFAULT 'Pending',
  delivery_agent_id TEXT,
  failure_reason TEXT,
  shipping_address TEXT NOT NULL,
  image TEXT NOT NULL,
  order_placed_date TEXT NOT NULL,
  expected_delivery_date TEXT NOT NULL,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT 'toys',
  age_group TEXT NOT NULL DEFAULT '1-3y',
  condition TEXT NOT NULL DEFAULT 'Good',
  sell_type TEXT NOT NULL DEFAULT 'sell',
  original_price NUMERIC NOT NULL DEFAULT 0,
  current_price NUMERIC NOT NULL DEFAULT 0,
  images TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'Pending',
  pickup_agent_id TEXT,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartEntries := `
CREATE TABLE IF NOT EXISTS cart_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	for _, schema := range []string{orders, products, cartEntries} {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func mustCreateOrder(t *testing.T, repo Repository, mutate func(*models.Order)) *models.Order {
	t.Helper()

	order := &models.Order{
		BuyerID:              uuid.New(),
		Products:             dbtypes.UUIDArray{uuid.New()},
		Amount:               decimal.NewFromInt(30),
		PaymentID:            "pay_" + uuid.NewString(),
		PaymentStatus:        enums.PaymentStatusPaid,
		DeliveryStatus:       enums.DeliveryStatusPending,
		ShippingAddress:      "12 Elm Street",
		Image:                "defaultImage.png",
		OrderPlacedDate:      "03/01/2026",
		ExpectedDeliveryDate: "Mar 6, 2026",
	}
	if mutate != nil {
		mutate(order)
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindRoundTrip(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	productIDs := dbtypes.UUIDArray{uuid.New(), uuid.New()}
	created := mustCreateOrder(t, repo, func(o *models.Order) {
		o.Products = productIDs
		o.Amount = decimal.RequireFromString("55.50")
	})

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.BuyerID, loaded.BuyerID)
	assert.Len(t, loaded.Products, 2)
	assert.Equal(t, productIDs[0], loaded.Products[0])
	assert.True(t, loaded.Amount.Equal(decimal.RequireFromString("55.50")))
	assert.Equal(t, "03/01/2026", loaded.OrderPlacedDate)
}

func TestRepositoryDeleteCartEntry(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	require.NoError(t, db.Create(&models.CartEntry{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}).Error)

	removed, err := repo.DeleteCartEntry(ctx, userID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.DeleteCartEntry(ctx, userID, productID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRepositoryMarkProductSoldOut(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := &models.Product{
		ID:       uuid.New(),
		SellerID: uuid.New(),
		Name:     "Order repo fixture",
		Status:   enums.ProductStatusCompleted,
	}
	require.NoError(t, db.Create(product).Error)

	changed, err := repo.MarkProductSoldOut(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkProductSoldOut(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRepositoryListAdminOrders(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	buyerID := uuid.New()
	mustCreateOrder(t, repo, func(o *models.Order) {
		o.BuyerID = buyerID
		o.Amount = decimal.NewFromInt(10)
		o.DeliveryStatus = enums.DeliveryStatusPending
	})
	mustCreateOrder(t, repo, func(o *models.Order) {
		o.BuyerID = buyerID
		o.Amount = decimal.NewFromInt(40)
		o.DeliveryStatus = enums.DeliveryStatusShipped
	})
	mustCreateOrder(t, repo, func(o *models.Order) {
		o.BuyerID = buyerID
		o.Amount = decimal.NewFromInt(25)
		o.DeliveryStatus = enums.DeliveryStatusShipped
	})

	t.Run("filterAggregatesWholeSet", func(t *testing.T) {
		status := enums.DeliveryStatusShipped
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters:    OrderListFilters{BuyerID: &buyerID, DeliveryStatus: &status},
			Pagination: pagination.Params{Page: 1, Limit: 1},
		})
		require.NoError(t, err)
		assert.Len(t, page.Orders, 1)
		assert.Equal(t, 2, page.Meta.TotalItems)
		assert.True(t, page.TotalAmount.Equal(decimal.NewFromInt(65)),
			"expected aggregate over the filtered set, got %s", page.TotalAmount)
	})

	t.Run("sortByAmount", func(t *testing.T) {
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{BuyerID: &buyerID},
			Sort:    OrderSort{Field: SortFieldAmount, Descending: true},
		})
		require.NoError(t, err)
		require.Len(t, page.Orders, 3)
		assert.True(t, page.Orders[0].Amount.Equal(decimal.NewFromInt(40)))
		assert.True(t, page.Orders[2].Amount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("dateWindow", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{BuyerID: &buyerID, PlacedAfter: &future},
		})
		require.NoError(t, err)
		assert.Empty(t, page.Orders)
		assert.True(t, page.TotalAmount.IsZero())
	})

	t.Run("placedBeforeIncludesBoundary", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, mustCreateOrder(t, repo, func(o *models.Order) {
			o.BuyerID = buyerID
		}).ID)
		require.NoError(t, err)

		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{BuyerID: &buyerID, PlacedBefore: &loaded.CreatedAt},
		})
		require.NoError(t, err)

		found := false
		for _, row := range page.Orders {
			if row.ID == loaded.ID {
				found = true
			}
		}
		assert.True(t, found, "expected the order placed exactly at the cutoff to be listed")
	})
}

func TestRepositoryListAdminOrdersSearch(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	target := mustCreateOrder(t, repo, func(o *models.Order) {
		o.PaymentID = "pay_SPRING-042"
	})
	mustCreateOrder(t, repo, func(o *models.Order) {
		o.PaymentID = "pay_other"
	})

	t.Run("byPaymentID", func(t *testing.T) {
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{Search: "spring-042"},
		})
		require.NoError(t, err)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, target.ID, page.Orders[0].ID)
	})

	t.Run("byBuyerID", func(t *testing.T) {
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{Search: target.BuyerID.String()},
		})
		require.NoError(t, err)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, target.ID, page.Orders[0].ID)
	})

	t.Run("byOrderID", func(t *testing.T) {
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{Search: target.ID.String()[:8]},
		})
		require.NoError(t, err)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, target.ID, page.Orders[0].ID)
	})

	t.Run("noMatch", func(t *testing.T) {
		page, err := repo.ListAdminOrders(ctx, orderListQuery{
			Filters: OrderListFilters{Search: "no-such-order"},
		})
		require.NoError(t, err)
		assert.Empty(t, page.Orders)
	})
}

func TestRepositoryListBuyerOrders(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	buyerID := uuid.New()
	for i := 0; i < 3; i++ {
		mustCreateOrder(t, repo, func(o *models.Order) { o.BuyerID = buyerID })
	}
	mustCreateOrder(t, repo, nil)

	rows, meta, err := repo.ListBuyerOrders(ctx, buyerID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 3, meta.TotalItems)
	assert.True(t, meta.HasNext)
	for _, row := range rows {
		assert.Equal(t, buyerID, row.BuyerID)
	}
}
