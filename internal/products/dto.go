package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// Actor identifies who is performing a product operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ProductDTO is the transport shape for a listing.
type ProductDTO struct {
	ID              uuid.UUID              `json:"id"`
	SellerID        uuid.UUID              `json:"seller_id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Category        enums.ProductCategory  `json:"category"`
	AgeGroup        enums.ProductAgeGroup  `json:"age_group"`
	Condition       enums.ProductCondition `json:"condition"`
	SellType        enums.ProductSellType  `json:"sell_type"`
	OriginalPrice   decimal.Decimal        `json:"original_price"`
	CurrentPrice    decimal.Decimal        `json:"current_price"`
	Images          []dbtypes.Image        `json:"images"`
	Status          enums.ProductStatus    `json:"status"`
	PickupAgentID   *uuid.UUID             `json:"pickup_agent_id,omitempty"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// FromModel maps the persistence model into the transport DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		SellerID:        p.SellerID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		AgeGroup:        p.AgeGroup,
		Condition:       p.Condition,
		SellType:        p.SellType,
		OriginalPrice:   p.OriginalPrice,
		CurrentPrice:    p.CurrentPrice,
		Images:          append([]dbtypes.Image(nil), p.Images...),
		Status:          p.Status,
		PickupAgentID:   p.PickupAgentID,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// CreateListingInput holds the seller-provided fields for a new listing.
type CreateListingInput struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	AgeGroup      string          `json:"age_group" validate:"required"`
	Condition     string          `json:"condition" validate:"required"`
	SellType      string          `json:"sell_type" validate:"required"`
	OriginalPrice decimal.Decimal `json:"original_price" validate:"required"`
	CurrentPrice  decimal.Decimal `json:"current_price" validate:"required"`
	Images        []dbtypes.Image `json:"images"`
}

// UpdateListingInput carries optional listing edits. Nil fields are untouched.
type UpdateListingInput struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	AgeGroup      *string          `json:"age_group,omitempty"`
	Condition     *string          `json:"condition,omitempty"`
	SellType      *string          `json:"sell_type,omitempty"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	Images        *[]dbtypes.Image `json:"images,omitempty"`
}

// UpdateStatusInput carries a requested workflow transition.
type UpdateStatusInput struct {
	Status          enums.ProductStatus
	PickupAgentID   *uuid.UUID
	RejectionReason *string
}

// BulkStatusResult reports the outcome of a bulk transition.
type BulkStatusResult struct {
	Updated []uuid.UUID `json:"updated"`
	Failed  int         `json:"failed"`
}

// ProductListResult is a page of listings with pagination metadata.
type ProductListResult struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}
