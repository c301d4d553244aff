package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/internal/users"
	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// defaultOrderImage is shown when none of the purchased listings carry one.
const defaultOrderImage = "defaultImage.png"

// deliveryWindow is the promised delivery horizon from placement.
const deliveryWindow = 120 * time.Hour

const (
	placedDateLayout   = "01/02/2006"
	expectedDateLayout = "Jan 2, 2006"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo  Repository
	Tx    txRunner
	Users *users.Repository
}

// Service exposes order placement, delivery workflow, and read paths.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*BuyerOrderList, error)
	UpdateDeliveryStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateDeliveryInput) (*OrderDTO, error)
	AdminList(ctx context.Context, input AdminListInput) (*AdminOrderList, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	users userDirectory
	now   func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{
		repo:  params.Repo,
		tx:    params.Tx,
		users: params.Users,
		now:   time.Now,
	}, nil
}

// PlaceOrder converts the buyer's selected cart lines into a single order.
// The whole placement is one transaction: every listing must still be
// purchasable and every cart line must exist, or nothing happens.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.ProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product is required")
	}
	if strings.TrimSpace(input.PaymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.PaymentStatus))
	}

	seen := make(map[uuid.UUID]struct{}, len(input.ProductIDs))
	for _, id := range input.ProductIDs {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in order")
		}
		seen[id] = struct{}{}
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.FindProductsByIDs(ctx, input.ProductIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		byID := make(map[uuid.UUID]*models.Product, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}

		amount := decimal.Zero
		for _, id := range input.ProductIDs {
			listing, ok := byID[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			if listing.Status == enums.ProductStatusSoldOut {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is sold out", listing.Name))
			}
			amount = amount.Add(listing.CurrentPrice)
		}

		// The order thumbnail is strictly the first product's first image.
		image := firstImage(byID[input.ProductIDs[0]].Images)
		if image == "" {
			image = defaultOrderImage
		}

		for _, id := range input.ProductIDs {
			changed, err := repo.MarkProductSoldOut(ctx, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark product sold out")
			}
			if !changed {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is sold out", byID[id].Name))
			}

			removed, err := repo.DeleteCartEntry(ctx, input.BuyerID, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart entry")
			}
			if removed == 0 {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart entry missing for purchased product")
			}
		}

		now := s.now()
		order := &models.Order{
			BuyerID:              input.BuyerID,
			Products:             dbtypes.UUIDArray(input.ProductIDs),
			Amount:               amount,
			PaymentID:            strings.TrimSpace(input.PaymentID),
			PaymentStatus:        input.PaymentStatus,
			DeliveryStatus:       enums.DeliveryStatusPending,
			ShippingAddress:      strings.TrimSpace(input.ShippingAddress),
			Image:                image,
			OrderPlacedDate:      now.Format(placedDateLayout),
			ExpectedDeliveryDate: now.Add(deliveryWindow).Format(expectedDateLayout),
		}
		placed, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(placed), nil
}

// GetOrder returns a single order, visible to the buyer, an admin, or the
// assigned delivery partner.
func (s *service) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewOrder(actor, order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return FromModel(order), nil
}

// ListBuyerOrders pages through the buyer's order history, newest first.
func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*BuyerOrderList, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, meta, err := s.repo.ListBuyerOrders(ctx, buyerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	names, err := s.resolveProductNames(ctx, rows)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		// Buyers see a slot per purchased product; removed listings keep
		// their position as an empty name.
		dto.ProductNames = orderProductNames(&rows[i], names, true)
		dtos = append(dtos, *dto)
	}
	return &BuyerOrderList{Orders: dtos, Meta: meta}, nil
}

// UpdateDeliveryStatus moves an order through the delivery workflow.
func (s *service) UpdateDeliveryStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateDeliveryInput) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"delivery_status": input.Status}

	switch input.Status {
	case enums.DeliveryStatusShipped:
		if actor.Role != enums.UserRoleAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Login as a admin to update order status as shipped")
		}
		if order.DeliveryStatus != enums.DeliveryStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Order must be pending before it can be shipped")
		}
		if input.DeliveryAgentID == nil || *input.DeliveryAgentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid delivery partner")
		}
		if _, err := s.users.FindByIDAndRole(ctx, *input.DeliveryAgentID, enums.UserRoleDeliveryBoy); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid delivery partner")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve delivery partner")
		}
		updates["delivery_agent_id"] = *input.DeliveryAgentID

	case enums.DeliveryStatusDelivered:
		if order.DeliveryStatus == enums.DeliveryStatusDelivered {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Order already delivered")
		}
		if order.DeliveryStatus != enums.DeliveryStatusShipped {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Order must be shipped before it can be delivered")
		}
		if actor.Role == enums.UserRoleDeliveryBoy {
			if order.DeliveryAgentID == nil || *order.DeliveryAgentID != actor.UserID {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to a different delivery partner")
			}
		}
		updates["delivered_at"] = s.now()

	case enums.DeliveryStatusFailed:
		if order.DeliveryStatus == enums.DeliveryStatusDelivered {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Order already delivered")
		}
		if order.DeliveryStatus != enums.DeliveryStatusShipped {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Order must be shipped before it can be marked failed")
		}
		if input.FailureReason == nil || strings.TrimSpace(*input.FailureReason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "failure reason is required")
		}
		updates["failure_reason"] = strings.TrimSpace(*input.FailureReason)

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported delivery status %q", input.Status))
	}

	if err := s.repo.UpdateOrder(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
	}

	updated, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// AdminList runs the back office order listing with buyer enrichment.
func (s *service) AdminList(ctx context.Context, input AdminListInput) (*AdminOrderList, error) {
	page, err := s.repo.ListAdminOrders(ctx, orderListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		Sort:       input.Sort,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	buyerIDs := make([]uuid.UUID, 0, len(page.Orders))
	seen := make(map[uuid.UUID]struct{}, len(page.Orders))
	for i := range page.Orders {
		id := page.Orders[i].BuyerID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		buyerIDs = append(buyerIDs, id)
	}

	buyers := make(map[uuid.UUID]models.User, len(buyerIDs))
	if len(buyerIDs) > 0 {
		rows, err := s.users.FindByIDs(ctx, buyerIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyers")
		}
		for _, row := range rows {
			buyers[row.ID] = row
		}
	}

	names, err := s.resolveProductNames(ctx, page.Orders)
	if err != nil {
		return nil, err
	}

	dtos := make([]AdminOrderDTO, 0, len(page.Orders))
	for i := range page.Orders {
		dto := AdminOrderDTO{OrderDTO: *FromModel(&page.Orders[i])}
		dto.ProductNames = orderProductNames(&page.Orders[i], names, false)
		if buyer, ok := buyers[page.Orders[i].BuyerID]; ok {
			dto.BuyerName = buyer.Name
			dto.BuyerEmail = buyer.Email
		}
		dtos = append(dtos, dto)
	}

	return &AdminOrderList{
		Orders:      dtos,
		Meta:        page.Meta,
		TotalAmount: page.TotalAmount,
	}, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// resolveProductNames loads the names of every product referenced by the
// given page of orders in a single query.
func (s *service) resolveProductNames(ctx context.Context, rows []models.Order) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for i := range rows {
		for _, id := range rows[i].Products {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order products")
	}
	names := make(map[uuid.UUID]string, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
	}
	return names, nil
}

// orderProductNames maps an order's product ids to names. With keepPositions
// the result mirrors the product list index for index, missing listings
// becoming empty strings; without it missing listings are dropped.
func orderProductNames(order *models.Order, names map[uuid.UUID]string, keepPositions bool) []string {
	out := make([]string, 0, len(order.Products))
	for _, id := range order.Products {
		name, ok := names[id]
		if !ok {
			if keepPositions {
				out = append(out, "")
			}
			continue
		}
		out = append(out, name)
	}
	return out
}

func canViewOrder(actor Actor, order *models.Order) bool {
	if actor.Role == enums.UserRoleAdmin {
		return true
	}
	if order.BuyerID == actor.UserID {
		return true
	}
	if actor.Role == enums.UserRoleDeliveryBoy && order.DeliveryAgentID != nil && *order.DeliveryAgentID == actor.UserID {
		return true
	}
	return false
}

func firstImage(images dbtypes.ImageList) string {
	if len(images) == 0 {
		return ""
	}
	if url := strings.TrimSpace(images[0].URL); url != "" {
		return url
	}
	return strings.TrimSpace(images[0].Filename)
}
