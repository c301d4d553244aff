package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// Order is a placed purchase. Products holds the listing ids bought in
// this order; Amount is the price snapshot taken at placement time.
type Order struct {
	ID                   uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID              uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	Products             dbtypes.UUIDArray    `gorm:"column:products;type:uuid[];not null"`
	Amount               decimal.Decimal      `gorm:"column:amount;type:numeric(10,2);not null"`
	PaymentID            string               `gorm:"column:payment_id;not null"`
	PaymentStatus        enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null"`
	DeliveryStatus       enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'Pending'"`
	DeliveryAgentID      *uuid.UUID           `gorm:"column:delivery_agent_id;type:uuid"`
	FailureReason        *string              `gorm:"column:failure_reason"`
	ShippingAddress      string               `gorm:"column:shipping_address;not null"`
	Image                string               `gorm:"column:image;not null"`
	OrderPlacedDate      string               `gorm:"column:order_placed_date;not null"`
	ExpectedDeliveryDate string               `gorm:"column:expected_delivery_date;not null"`
	DeliveredAt          *time.Time           `gorm:"column:delivered_at"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
