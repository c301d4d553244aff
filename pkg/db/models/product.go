package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// Product represents a secondhand listing moving through the approval
// and pickup workflow.
type Product struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID        uuid.UUID              `gorm:"column:seller_id;type:uuid;not null"`
	Name            string                 `gorm:"column:name;not null"`
	Description     string                 `gorm:"column:description;not null"`
	Category        enums.ProductCategory  `gorm:"column:category;type:text;not null"`
	AgeGroup        enums.ProductAgeGroup  `gorm:"column:age_group;type:text;not null"`
	Condition       enums.ProductCondition `gorm:"column:condition;type:text;not null"`
	SellType        enums.ProductSellType  `gorm:"column:sell_type;type:text;not null"`
	OriginalPrice   decimal.Decimal        `gorm:"column:original_price;type:numeric(10,2);not null"`
	CurrentPrice    decimal.Decimal        `gorm:"column:current_price;type:numeric(10,2);not null"`
	Images          dbtypes.ImageList      `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	Status          enums.ProductStatus    `gorm:"column:status;type:text;not null;default:'Pending'"`
	PickupAgentID   *uuid.UUID             `gorm:"column:pickup_agent_id;type:uuid"`
	RejectionReason *string                `gorm:"column:rejection_reason"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
