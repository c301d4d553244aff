package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// PlaceOrderInput captures everything needed to turn cart lines into an order.
type PlaceOrderInput struct {
	BuyerID         uuid.UUID
	ProductIDs      []uuid.UUID
	PaymentID       string
	PaymentStatus   enums.PaymentStatus
	ShippingAddress string
}

// UpdateDeliveryInput carries a requested delivery transition.
type UpdateDeliveryInput struct {
	Status          enums.DeliveryStatus
	DeliveryAgentID *uuid.UUID
	FailureReason   *string
}

// OrderDTO is the transport shape for a placed order.
type OrderDTO struct {
	ID       uuid.UUID   `json:"id"`
	BuyerID  uuid.UUID   `json:"buyer_id"`
	Products []uuid.UUID `json:"products"`
	// ProductNames mirrors Products on the listing endpoints; it is derived
	// at read time and empty on placement responses.
	ProductNames         []string             `json:"product_names,omitempty"`
	Amount               decimal.Decimal      `json:"amount"`
	PaymentID            string               `json:"payment_id"`
	PaymentStatus        enums.PaymentStatus  `json:"payment_status"`
	DeliveryStatus       enums.DeliveryStatus `json:"delivery_status"`
	DeliveryAgentID      *uuid.UUID           `json:"delivery_agent_id,omitempty"`
	FailureReason        *string              `json:"failure_reason,omitempty"`
	ShippingAddress      string               `json:"shipping_address"`
	Image                string               `json:"image"`
	OrderPlacedDate      string               `json:"order_placed_date"`
	ExpectedDeliveryDate string               `json:"expected_delivery_date"`
	DeliveredAt          *time.Time           `json:"delivered_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// FromModel maps the persistence model into the transport DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:                   o.ID,
		BuyerID:              o.BuyerID,
		Products:             append([]uuid.UUID(nil), o.Products...),
		Amount:               o.Amount,
		PaymentID:            o.PaymentID,
		PaymentStatus:        o.PaymentStatus,
		DeliveryStatus:       o.DeliveryStatus,
		DeliveryAgentID:      o.DeliveryAgentID,
		FailureReason:        o.FailureReason,
		ShippingAddress:      o.ShippingAddress,
		Image:                o.Image,
		OrderPlacedDate:      o.OrderPlacedDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		DeliveredAt:          o.DeliveredAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// AdminOrderDTO is an order enriched with buyer identity for back office views.
type AdminOrderDTO struct {
	OrderDTO
	BuyerName  string `json:"buyer_name,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
}

// Sortable fields for the admin order listing.
const (
	SortFieldDate   = "date"
	SortFieldAmount = "amount"
)

// OrderSort describes the requested ordering for the admin listing.
type OrderSort struct {
	Field      string `json:"field,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// OrderListFilters describe the admin listing filter knobs.
type OrderListFilters struct {
	DeliveryStatus *enums.DeliveryStatus `json:"delivery_status,omitempty"`
	PaymentStatus  *enums.PaymentStatus  `json:"payment_status,omitempty"`
	BuyerID        *uuid.UUID            `json:"buyer_id,omitempty"`
	PlacedAfter    *time.Time            `json:"placed_after,omitempty"`
	PlacedBefore   *time.Time            `json:"placed_before,omitempty"`
	// Search matches order id, buyer id, or payment id as a
	// case-insensitive substring.
	Search string `json:"search,omitempty"`
}

// AdminListInput captures the inputs for the admin order listing.
type AdminListInput struct {
	Filters    OrderListFilters
	Sort       OrderSort
	Pagination pagination.Params
}

// AdminOrderPage is a page of raw orders plus the aggregate over the whole
// filtered set, before buyer enrichment.
type AdminOrderPage struct {
	Orders      []models.Order
	Meta        pagination.Meta
	TotalAmount decimal.Decimal
}

// AdminOrderList is the enriched admin listing response.
type AdminOrderList struct {
	Orders      []AdminOrderDTO `json:"orders"`
	Meta        pagination.Meta `json:"meta"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// BuyerOrderList is a page of the buyer's own order history.
type BuyerOrderList struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

type orderListQuery struct {
	Pagination pagination.Params
	Filters    OrderListFilters
	Sort       OrderSort
}
