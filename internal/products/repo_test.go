package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  age_group TEXT NOT NULL,
  condition TEXT NOT NULL,
  sell_type TEXT NOT NULL,
  original_price NUMERIC NOT NULL,
  current_price NUMERIC NOT NULL,
  images TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'Pending',
  pickup_agent_id TEXT,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func mustCreateListing(t *testing.T, repo *Repository, sellerID uuid.UUID, mutate func(*models.Product)) *models.Product {
	t.Helper()

	listing := &models.Product{
		SellerID:      sellerID,
		Name:          "Test Listing",
		Description:   "repo test fixture",
		Category:      enums.ProductCategoryToys,
		AgeGroup:      enums.ProductAgeGroupToddler,
		Condition:     enums.ProductConditionGood,
		SellType:      enums.ProductSellTypeSell,
		OriginalPrice: decimal.NewFromInt(50),
		CurrentPrice:  decimal.NewFromInt(30),
		Status:        enums.ProductStatusPending,
	}
	if mutate != nil {
		mutate(listing)
	}
	created, err := repo.CreateProduct(context.Background(), listing)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindByIDs(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	sellerID := uuid.New()
	ctx := context.Background()

	first := mustCreateListing(t, repo, sellerID, nil)
	second := mustCreateListing(t, repo, sellerID, nil)

	rows, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryListProductsFilters(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	sellerID := uuid.New()
	ctx := context.Background()

	mustCreateListing(t, repo, sellerID, func(p *models.Product) {
		p.Name = "Red tricycle"
		p.Status = enums.ProductStatusCompleted
		p.CurrentPrice = decimal.NewFromInt(45)
	})
	mustCreateListing(t, repo, sellerID, func(p *models.Product) {
		p.Name = "Picture books bundle"
		p.Category = enums.ProductCategoryBooks
		p.Status = enums.ProductStatusCompleted
		p.CurrentPrice = decimal.NewFromInt(10)
	})
	mustCreateListing(t, repo, sellerID, func(p *models.Product) {
		p.Name = "Pending rocker"
		p.Status = enums.ProductStatusPending
	})

	t.Run("byCategory", func(t *testing.T) {
		category := enums.ProductCategoryBooks
		result, err := repo.ListProducts(ctx, productListQuery{
			SellerID: &sellerID,
			Filters:  ProductListFilters{Category: &category},
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Picture books bundle", result.Products[0].Name)
	})

	t.Run("unapprovedOnly", func(t *testing.T) {
		result, err := repo.ListProducts(ctx, productListQuery{
			SellerID:   &sellerID,
			Unapproved: true,
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Pending rocker", result.Products[0].Name)
	})

	t.Run("search", func(t *testing.T) {
		result, err := repo.ListProducts(ctx, productListQuery{
			SellerID: &sellerID,
			Filters:  ProductListFilters{Query: "tricycle"},
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Red tricycle", result.Products[0].Name)
	})

	t.Run("searchMatchesCategory", func(t *testing.T) {
		strollerSeller := uuid.New()
		mustCreateListing(t, repo, strollerSeller, func(p *models.Product) {
			p.Name = "Travel buggy"
			p.Description = "folds flat"
			p.Category = enums.ProductCategoryStrollers
			p.Status = enums.ProductStatusCompleted
		})

		result, err := repo.ListProducts(ctx, productListQuery{
			SellerID: &strollerSeller,
			Filters:  ProductListFilters{Query: "stroller"},
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Travel buggy", result.Products[0].Name)
	})

	t.Run("sortByPriceAscending", func(t *testing.T) {
		status := enums.ProductStatusCompleted
		result, err := repo.ListProducts(ctx, productListQuery{
			SellerID: &sellerID,
			Filters:  ProductListFilters{Status: &status},
			Sort:     ProductSort{Field: SortFieldPrice},
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "Picture books bundle", result.Products[0].Name)
		assert.Equal(t, "Red tricycle", result.Products[1].Name)
	})
}

func TestRepositoryListProductsPagination(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	sellerID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreateListing(t, repo, sellerID, nil)
	}

	first, err := repo.ListProducts(ctx, productListQuery{
		SellerID:   &sellerID,
		Pagination: pagination.Params{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, first.Products, 2)
	assert.Equal(t, 1, first.Meta.Current)
	assert.Equal(t, 3, first.Meta.Total)
	assert.Equal(t, 5, first.Meta.TotalItems)
	assert.True(t, first.Meta.HasNext)
	assert.False(t, first.Meta.HasPrev)

	last, err := repo.ListProducts(ctx, productListQuery{
		SellerID:   &sellerID,
		Pagination: pagination.Params{Page: 3, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, last.Products, 1)
	assert.False(t, last.Meta.HasNext)
	assert.True(t, last.Meta.HasPrev)
}
