package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// Default page sizes for listing endpoints.
const (
	defaultBrowsePageSize = 20
	defaultAdminPageSize  = 10
)

// Sortable fields for listing queries.
const (
	SortFieldDate  = "date"
	SortFieldPrice = "price"
	SortFieldName  = "name"
	SortFieldAge   = "age"
)

// ProductSort describes the requested ordering for a listing query.
type ProductSort struct {
	Field      string `json:"field,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// ProductListFilters describe the supported filter knobs for listing queries.
type ProductListFilters struct {
	Category  *enums.ProductCategory  `json:"category,omitempty"`
	AgeGroup  *enums.ProductAgeGroup  `json:"age_group,omitempty"`
	Condition *enums.ProductCondition `json:"condition,omitempty"`
	SellType  *enums.ProductSellType  `json:"sell_type,omitempty"`
	Status    *enums.ProductStatus    `json:"status,omitempty"`
	PriceMin  *decimal.Decimal        `json:"price_min,omitempty"`
	PriceMax  *decimal.Decimal        `json:"price_max,omitempty"`
	Query     string                  `json:"q,omitempty"`
}

// BrowseInput captures the inputs for the public storefront listing.
type BrowseInput struct {
	Filters    ProductListFilters
	Sort       ProductSort
	Pagination pagination.Params
}

// AdminListInput captures the inputs for the admin listing views.
type AdminListInput struct {
	Filters    ProductListFilters
	Sort       ProductSort
	Pagination pagination.Params
	Unapproved bool
	SellerID   *uuid.UUID
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	Sort       ProductSort
	Statuses   []enums.ProductStatus
	Unapproved bool
	SellerID   *uuid.UUID
	PageSize   int
}
