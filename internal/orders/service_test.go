package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

type stubOrderRepo struct {
	createFn       func(ctx context.Context, order *models.Order) (*models.Order, error)
	findFn         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	findProductsFn func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	markSoldOutFn  func(ctx context.Context, productID uuid.UUID) (bool, error)
	deleteCartFn   func(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	listBuyerFn    func(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]models.Order, pagination.Meta, error)
	listAdminFn    func(ctx context.Context, query orderListQuery) (*AdminOrderPage, error)
	updateFn       func(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, order)
	}
	order.ID = uuid.New()
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if s.findProductsFn != nil {
		return s.findProductsFn(ctx, ids)
	}
	return nil, nil
}

func (s *stubOrderRepo) MarkProductSoldOut(ctx context.Context, productID uuid.UUID) (bool, error) {
	if s.markSoldOutFn != nil {
		return s.markSoldOutFn(ctx, productID)
	}
	return true, nil
}

func (s *stubOrderRepo) DeleteCartEntry(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	if s.deleteCartFn != nil {
		return s.deleteCartFn(ctx, userID, productID)
	}
	return 1, nil
}

func (s *stubOrderRepo) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]models.Order, pagination.Meta, error) {
	if s.listBuyerFn != nil {
		return s.listBuyerFn(ctx, buyerID, params)
	}
	return nil, pagination.Meta{}, nil
}

func (s *stubOrderRepo) ListAdminOrders(ctx context.Context, query orderListQuery) (*AdminOrderPage, error) {
	if s.listAdminFn != nil {
		return s.listAdminFn(ctx, query)
	}
	return &AdminOrderPage{}, nil
}

func (s *stubOrderRepo) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, updates)
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserDirectory struct {
	findRoleFn func(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
	findIDsFn  func(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

func (s *stubUserDirectory) FindByIDAndRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	if s.findRoleFn != nil {
		return s.findRoleFn(ctx, id, role)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserDirectory) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if s.findIDsFn != nil {
		return s.findIDsFn(ctx, ids)
	}
	return nil, nil
}

func purchasable(id uuid.UUID, name string, price int64) models.Product {
	return models.Product{
		ID:           id,
		SellerID:     uuid.New(),
		Name:         name,
		Status:       enums.ProductStatusCompleted,
		CurrentPrice: decimal.NewFromInt(price),
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	buyerID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	first := purchasable(firstID, "Tricycle", 45)
	first.Images = dbtypes.ImageList{{Filename: "trike.png", URL: "https://cdn.example.com/trike.png"}}
	second := purchasable(secondID, "Book bundle", 10)

	soldOut := map[uuid.UUID]bool{}
	cartDeleted := map[uuid.UUID]bool{}
	var created *models.Order

	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{first, second}, nil
		},
		markSoldOutFn: func(ctx context.Context, productID uuid.UUID) (bool, error) {
			soldOut[productID] = true
			return true, nil
		},
		deleteCartFn: func(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
			if userID != buyerID {
				t.Fatalf("unexpected cart owner %s", userID)
			}
			cartDeleted[productID] = true
			return 1, nil
		},
		createFn: func(ctx context.Context, order *models.Order) (*models.Order, error) {
			order.ID = uuid.New()
			created = order
			return order, nil
		},
	}
	svc := &service{
		repo:  repo,
		tx:    stubTxRunner{},
		users: &stubUserDirectory{},
		now: func() time.Time {
			return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
		},
	}

	dto, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{firstID, secondID},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street, Springfield",
	})
	if err != nil {
		t.Fatalf("expected order placed, got %v", err)
	}

	if !dto.Amount.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected amount 55, got %s", dto.Amount)
	}
	if dto.Image != "https://cdn.example.com/trike.png" {
		t.Fatalf("unexpected order image %q", dto.Image)
	}
	if dto.OrderPlacedDate != "03/01/2026" {
		t.Fatalf("unexpected placed date %q", dto.OrderPlacedDate)
	}
	if dto.ExpectedDeliveryDate != "Mar 6, 2026" {
		t.Fatalf("unexpected expected delivery date %q", dto.ExpectedDeliveryDate)
	}
	if dto.DeliveryStatus != enums.DeliveryStatusPending {
		t.Fatalf("expected pending delivery, got %s", dto.DeliveryStatus)
	}
	if dto.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid order, got %s", dto.PaymentStatus)
	}
	if !soldOut[firstID] || !soldOut[secondID] {
		t.Fatal("expected both listings marked sold out")
	}
	if !cartDeleted[firstID] || !cartDeleted[secondID] {
		t.Fatal("expected both cart lines removed")
	}
	if created == nil || len(created.Products) != 2 {
		t.Fatalf("expected order row with both products, got %+v", created)
	}
}

func TestPlaceOrderFallsBackToDefaultImage(t *testing.T) {
	buyerID := uuid.New()
	productID := uuid.New()

	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{purchasable(productID, "Plain listing", 20)}, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	dto, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{productID},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street",
	})
	if err != nil {
		t.Fatalf("expected order placed, got %v", err)
	}
	if dto.Image != defaultOrderImage {
		t.Fatalf("expected default image, got %q", dto.Image)
	}
}

func TestPlaceOrderImageFollowsFirstProduct(t *testing.T) {
	buyerID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	first := purchasable(firstID, "No photo", 20)
	second := purchasable(secondID, "Has photo", 15)
	second.Images = dbtypes.ImageList{{Filename: "wagon.png", URL: "https://cdn.example.com/wagon.png"}}

	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{first, second}, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	dto, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{firstID, secondID},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street",
	})
	if err != nil {
		t.Fatalf("expected order placed, got %v", err)
	}
	// Later products never lend their image; an unphotographed first
	// product means the default thumbnail.
	if dto.Image != defaultOrderImage {
		t.Fatalf("expected default image, got %q", dto.Image)
	}
}

func TestPlaceOrderPaymentStatus(t *testing.T) {
	buyerID := uuid.New()
	productID := uuid.New()

	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{purchasable(productID, "Listing", 20)}, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	t.Run("carriesRequestedStatus", func(t *testing.T) {
		dto, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
			BuyerID:         buyerID,
			ProductIDs:      []uuid.UUID{productID},
			PaymentID:       "pay_123",
			PaymentStatus:   enums.PaymentStatusPending,
			ShippingAddress: "12 Elm Street",
		})
		if err != nil {
			t.Fatalf("expected order placed, got %v", err)
		}
		if dto.PaymentStatus != enums.PaymentStatusPending {
			t.Fatalf("expected pending payment, got %s", dto.PaymentStatus)
		}
	})

	t.Run("rejectsUnknownStatus", func(t *testing.T) {
		_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
			BuyerID:         buyerID,
			ProductIDs:      []uuid.UUID{productID},
			PaymentID:       "pay_123",
			PaymentStatus:   enums.PaymentStatus("Settled"),
			ShippingAddress: "12 Elm Street",
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestPlaceOrderMissingProductAbortsAll(t *testing.T) {
	buyerID := uuid.New()
	knownID := uuid.New()

	marked := false
	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{purchasable(knownID, "Known", 10)}, nil
		},
		markSoldOutFn: func(ctx context.Context, productID uuid.UUID) (bool, error) {
			marked = true
			return true, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{knownID, uuid.New()},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if marked {
		t.Fatal("expected no listing to be touched when one is missing")
	}
}

func TestPlaceOrderSoldOutListing(t *testing.T) {
	buyerID := uuid.New()
	productID := uuid.New()

	listing := purchasable(productID, "Gone already", 10)
	listing.Status = enums.ProductStatusSoldOut

	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{listing}, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{productID},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPlaceOrderMissingCartEntryAborts(t *testing.T) {
	buyerID := uuid.New()
	productID := uuid.New()

	orderCreated := false
	repo := &stubOrderRepo{
		findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return []models.Product{purchasable(productID, "Uncarted", 10)}, nil
		},
		deleteCartFn: func(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, order *models.Order) (*models.Order, error) {
			orderCreated = true
			return order, nil
		},
	}
	svc := &service{repo: repo, tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID:         buyerID,
		ProductIDs:      []uuid.UUID{productID},
		PaymentID:       "pay_123",
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingAddress: "12 Elm Street",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if orderCreated {
		t.Fatal("expected no order row when a cart entry is missing")
	}
}

func orderFixture(status enums.DeliveryStatus) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		BuyerID:        uuid.New(),
		Products:       dbtypes.UUIDArray{uuid.New()},
		Amount:         decimal.NewFromInt(30),
		PaymentID:      "pay_123",
		PaymentStatus:  enums.PaymentStatusPaid,
		DeliveryStatus: status,
	}
}

func TestUpdateDeliveryStatusShipGate(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	agentID := uuid.New()

	users := &stubUserDirectory{
		findRoleFn: func(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
			if id == agentID && role == enums.UserRoleDeliveryBoy {
				return &models.User{ID: agentID, Role: role}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	t.Run("adminOnly", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusPending)
		updated := false
		svc := &service{
			repo: &stubOrderRepo{
				findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
					return order, nil
				},
				updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
					updated = true
					return nil
				},
			},
			tx: stubTxRunner{}, users: users, now: time.Now,
		}
		partner := Actor{UserID: uuid.New(), Role: enums.UserRoleDeliveryBoy}
		_, err := svc.UpdateDeliveryStatus(context.Background(), partner, order.ID, UpdateDeliveryInput{
			Status:          enums.DeliveryStatusShipped,
			DeliveryAgentID: &agentID,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if typed.Message() != "Login as a admin to update order status as shipped" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
		if updated {
			t.Fatal("expected no update for non admin actor")
		}
	})

	t.Run("mustBePending", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusShipped)
		svc := &service{
			repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			}},
			tx: stubTxRunner{}, users: users, now: time.Now,
		}
		_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status:          enums.DeliveryStatusShipped,
			DeliveryAgentID: &agentID,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
		if typed.Message() != "Order must be pending before it can be shipped" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	})

	t.Run("invalidPartner", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusPending)
		svc := &service{
			repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			}},
			tx: stubTxRunner{}, users: users, now: time.Now,
		}
		stranger := uuid.New()
		_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status:          enums.DeliveryStatusShipped,
			DeliveryAgentID: &stranger,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if typed.Message() != "Invalid delivery partner" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	})

	t.Run("success", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusPending)
		var captured map[string]any
		svc := &service{
			repo: &stubOrderRepo{
				findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
					return order, nil
				},
				updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
					captured = updates
					return nil
				},
			},
			tx: stubTxRunner{}, users: users, now: time.Now,
		}
		_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status:          enums.DeliveryStatusShipped,
			DeliveryAgentID: &agentID,
		})
		if err != nil {
			t.Fatalf("expected ship to succeed, got %v", err)
		}
		if captured["delivery_status"] != enums.DeliveryStatusShipped {
			t.Fatalf("expected shipped status, got %v", captured)
		}
		if captured["delivery_agent_id"] != agentID {
			t.Fatalf("expected agent recorded, got %v", captured)
		}
	})
}

func TestUpdateDeliveryStatusDeliverGate(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	t.Run("alreadyDelivered", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusDelivered)
		svc := &service{
			repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			}},
			tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
		}
		_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status: enums.DeliveryStatusDelivered,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Message() != "Order already delivered" {
			t.Fatalf("expected already delivered message, got %v", err)
		}
	})

	t.Run("mustBeShipped", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusPending)
		svc := &service{
			repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			}},
			tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
		}
		_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status: enums.DeliveryStatusDelivered,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Message() != "Order must be shipped before it can be delivered" {
			t.Fatalf("expected shipped gate message, got %v", err)
		}
	})

	t.Run("unassignedAgentForbidden", func(t *testing.T) {
		assigned := uuid.New()
		order := orderFixture(enums.DeliveryStatusShipped)
		order.DeliveryAgentID = &assigned
		svc := &service{
			repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			}},
			tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
		}
		otherAgent := Actor{UserID: uuid.New(), Role: enums.UserRoleDeliveryBoy}
		_, err := svc.UpdateDeliveryStatus(context.Background(), otherAgent, order.ID, UpdateDeliveryInput{
			Status: enums.DeliveryStatusDelivered,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("stampsDeliveredAt", func(t *testing.T) {
		order := orderFixture(enums.DeliveryStatusShipped)
		delivered := time.Date(2026, time.March, 4, 17, 0, 0, 0, time.UTC)
		var captured map[string]any
		svc := &service{
			repo: &stubOrderRepo{
				findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
					return order, nil
				},
				updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
					captured = updates
					return nil
				},
			},
			tx: stubTxRunner{}, users: &stubUserDirectory{},
			now: func() time.Time { return delivered },
		}
		if _, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
			Status: enums.DeliveryStatusDelivered,
		}); err != nil {
			t.Fatalf("expected delivery to succeed, got %v", err)
		}
		if captured["delivered_at"] != delivered {
			t.Fatalf("expected delivered_at stamp, got %v", captured)
		}
	})
}

func TestUpdateDeliveryStatusFailedRequiresReason(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	order := orderFixture(enums.DeliveryStatusShipped)

	svc := &service{
		repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		}},
		tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
	}

	_, err := svc.UpdateDeliveryStatus(context.Background(), admin, order.ID, UpdateDeliveryInput{
		Status: enums.DeliveryStatusFailed,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListBuyerOrdersResolvesProductNames(t *testing.T) {
	buyerID := uuid.New()
	keptID := uuid.New()
	removedID := uuid.New()

	order := orderFixture(enums.DeliveryStatusPending)
	order.BuyerID = buyerID
	order.Products = dbtypes.UUIDArray{removedID, keptID}

	svc := &service{
		repo: &stubOrderRepo{
			listBuyerFn: func(ctx context.Context, id uuid.UUID, params pagination.Params) ([]models.Order, pagination.Meta, error) {
				return []models.Order{*order}, pagination.Meta{Current: 1, Total: 1, Count: 1, TotalItems: 1}, nil
			},
			findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
				return []models.Product{purchasable(keptID, "Rocking horse", 25)}, nil
			},
		},
		tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
	}

	list, err := svc.ListBuyerOrders(context.Background(), buyerID, pagination.Params{})
	if err != nil {
		t.Fatalf("expected listing, got %v", err)
	}
	if len(list.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(list.Orders))
	}
	names := list.Orders[0].ProductNames
	if len(names) != 2 {
		t.Fatalf("expected a name slot per product, got %v", names)
	}
	if names[0] != "" || names[1] != "Rocking horse" {
		t.Fatalf("expected removed listing to hold its position, got %v", names)
	}
}

func TestAdminListEnrichesBuyers(t *testing.T) {
	buyerID := uuid.New()
	keptID := uuid.New()
	order := orderFixture(enums.DeliveryStatusPending)
	order.BuyerID = buyerID
	order.Products = dbtypes.UUIDArray{uuid.New(), keptID}

	svc := &service{
		repo: &stubOrderRepo{
			listAdminFn: func(ctx context.Context, query orderListQuery) (*AdminOrderPage, error) {
				return &AdminOrderPage{
					Orders:      []models.Order{*order},
					Meta:        pagination.Meta{Current: 1, Total: 1, Count: 1, TotalItems: 1},
					TotalAmount: decimal.NewFromInt(30),
				}, nil
			},
			findProductsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
				return []models.Product{purchasable(keptID, "Balance bike", 30)}, nil
			},
		},
		tx: stubTxRunner{},
		users: &stubUserDirectory{
			findIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
				return []models.User{{ID: buyerID, Name: "Jordan Buyer", Email: "jordan@example.com"}}, nil
			},
		},
		now: time.Now,
	}

	list, err := svc.AdminList(context.Background(), AdminListInput{})
	if err != nil {
		t.Fatalf("expected listing, got %v", err)
	}
	if len(list.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(list.Orders))
	}
	if list.Orders[0].BuyerName != "Jordan Buyer" || list.Orders[0].BuyerEmail != "jordan@example.com" {
		t.Fatalf("expected buyer enrichment, got %+v", list.Orders[0])
	}
	// Removed listings are dropped from the admin view rather than kept
	// as placeholders.
	if names := list.Orders[0].ProductNames; len(names) != 1 || names[0] != "Balance bike" {
		t.Fatalf("expected surviving product name only, got %v", names)
	}
	if !list.TotalAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total amount passthrough, got %s", list.TotalAmount)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	order := orderFixture(enums.DeliveryStatusPending)

	svc := &service{
		repo: &stubOrderRepo{findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		}},
		tx: stubTxRunner{}, users: &stubUserDirectory{}, now: time.Now,
	}

	if _, err := svc.GetOrder(context.Background(), Actor{UserID: order.BuyerID, Role: enums.UserRoleCustomer}, order.ID); err != nil {
		t.Fatalf("expected buyer to see own order, got %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, order.ID); err != nil {
		t.Fatalf("expected admin to see order, got %v", err)
	}
	_, err := svc.GetOrder(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}, order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}
