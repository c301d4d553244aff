package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
)

type stubListingStore struct {
	createFn       func(ctx context.Context, product *models.Product) (*models.Product, error)
	updateFn       func(ctx context.Context, product *models.Product) (*models.Product, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	findFn         func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	listBySellerFn func(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, updates map[string]any) error
	listFn         func(ctx context.Context, query productListQuery) (*ProductListResult, error)
}

func (s *stubListingStore) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createFn != nil {
		return s.createFn(ctx, product)
	}
	return product, nil
}

func (s *stubListingStore) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, product)
	}
	return product, nil
}

func (s *stubListingStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubListingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubListingStore) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	if s.listBySellerFn != nil {
		return s.listBySellerFn(ctx, sellerID)
	}
	return nil, nil
}

func (s *stubListingStore) UpdateStatusFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, updates)
	}
	return nil
}

func (s *stubListingStore) ListProducts(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, query)
	}
	return &ProductListResult{}, nil
}

type stubAgentDirectory struct {
	findFn func(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
}

func (s *stubAgentDirectory) FindByIDAndRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id, role)
	}
	return nil, gorm.ErrRecordNotFound
}

func listingFixture(status enums.ProductStatus) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Name:          "Wooden blocks",
		Description:   "Gently used set",
		Category:      enums.ProductCategoryToys,
		AgeGroup:      enums.ProductAgeGroupToddler,
		Condition:     enums.ProductConditionGood,
		SellType:      enums.ProductSellTypeSell,
		OriginalPrice: decimal.NewFromInt(40),
		CurrentPrice:  decimal.NewFromInt(25),
		Status:        status,
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name     string
		role     enums.UserRole
		from     enums.ProductStatus
		to       enums.ProductStatus
		wantCode pkgerrors.Code
		wantOK   bool
	}{
		{name: "adminApproves", role: enums.UserRoleAdmin, from: enums.ProductStatusPending, to: enums.ProductStatusReadyToPick, wantOK: true},
		{name: "adminRejects", role: enums.UserRoleAdmin, from: enums.ProductStatusPending, to: enums.ProductStatusRejected, wantOK: true},
		{name: "agentPicks", role: enums.UserRoleDeliveryBoy, from: enums.ProductStatusReadyToPick, to: enums.ProductStatusPicked, wantOK: true},
		{name: "agentCompletes", role: enums.UserRoleDeliveryBoy, from: enums.ProductStatusPicked, to: enums.ProductStatusCompleted, wantOK: true},
		{name: "customerCannotApprove", role: enums.UserRoleCustomer, from: enums.ProductStatusPending, to: enums.ProductStatusReadyToPick, wantCode: pkgerrors.CodeForbidden},
		{name: "agentCannotApprove", role: enums.UserRoleDeliveryBoy, from: enums.ProductStatusPending, to: enums.ProductStatusReadyToPick, wantCode: pkgerrors.CodeForbidden},
		{name: "cannotSkipPickup", role: enums.UserRoleAdmin, from: enums.ProductStatusPending, to: enums.ProductStatusCompleted, wantCode: pkgerrors.CodeStateConflict},
		{name: "cannotRejectApproved", role: enums.UserRoleAdmin, from: enums.ProductStatusReadyToPick, to: enums.ProductStatusRejected, wantCode: pkgerrors.CodeStateConflict},
		{name: "soldOutNotSettable", role: enums.UserRoleAdmin, from: enums.ProductStatusCompleted, to: enums.ProductStatusSoldOut, wantCode: pkgerrors.CodeValidation},
		{name: "pendingNotSettable", role: enums.UserRoleAdmin, from: enums.ProductStatusRejected, to: enums.ProductStatusPending, wantCode: pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkTransition(tc.role, tc.from, tc.to)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected transition allowed, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected transition to be refused")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected code %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestUpdateStatusApproveRequiresDeliveryPartner(t *testing.T) {
	listing := listingFixture(enums.ProductStatusPending)
	agentID := uuid.New()

	repo := &stubListingStore{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return listing, nil
		},
	}
	svc := &service{
		repo: repo,
		users: &stubAgentDirectory{
			findFn: func(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
				if id == agentID && role == enums.UserRoleDeliveryBoy {
					return &models.User{ID: agentID, Role: role}, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		},
	}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	t.Run("missingAgent", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), admin, listing.ID, UpdateStatusInput{
			Status: enums.ProductStatusReadyToPick,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("agentNotDeliveryPartner", func(t *testing.T) {
		stranger := uuid.New()
		_, err := svc.UpdateStatus(context.Background(), admin, listing.ID, UpdateStatusInput{
			Status:        enums.ProductStatusReadyToPick,
			PickupAgentID: &stranger,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		var captured map[string]any
		repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
			captured = updates
			return nil
		}
		_, err := svc.UpdateStatus(context.Background(), admin, listing.ID, UpdateStatusInput{
			Status:        enums.ProductStatusReadyToPick,
			PickupAgentID: &agentID,
		})
		if err != nil {
			t.Fatalf("expected transition to succeed, got %v", err)
		}
		if captured["status"] != enums.ProductStatusReadyToPick {
			t.Fatalf("expected status update, got %v", captured)
		}
		if captured["pickup_agent_id"] != agentID {
			t.Fatalf("expected pickup agent recorded, got %v", captured)
		}
	})
}

func TestUpdateStatusAgentMustOwnAssignment(t *testing.T) {
	assigned := uuid.New()
	listing := listingFixture(enums.ProductStatusReadyToPick)
	listing.PickupAgentID = &assigned

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				return listing, nil
			},
		},
		users: &stubAgentDirectory{},
	}

	otherAgent := Actor{UserID: uuid.New(), Role: enums.UserRoleDeliveryBoy}
	_, err := svc.UpdateStatus(context.Background(), otherAgent, listing.ID, UpdateStatusInput{
		Status: enums.ProductStatusPicked,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for unassigned agent, got %v", err)
	}
}

func TestUpdateStatusRejectRequiresReason(t *testing.T) {
	listing := listingFixture(enums.ProductStatusPending)

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				return listing, nil
			},
		},
		users: &stubAgentDirectory{},
	}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	_, err := svc.UpdateStatus(context.Background(), admin, listing.ID, UpdateStatusInput{
		Status: enums.ProductStatusRejected,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without reason, got %v", err)
	}
}

func TestBulkUpdateStatusAggregatesFailures(t *testing.T) {
	goodID := uuid.New()
	badID := uuid.New()

	listings := map[uuid.UUID]*models.Product{
		goodID: listingFixture(enums.ProductStatusPending),
		badID:  listingFixture(enums.ProductStatusPicked),
	}
	listings[goodID].ID = goodID
	listings[badID].ID = badID

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				if listing, ok := listings[id]; ok {
					return listing, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		},
		users: &stubAgentDirectory{},
	}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	reason := "torn fabric"

	result, err := svc.BulkUpdateStatus(context.Background(), admin, []uuid.UUID{goodID, badID}, UpdateStatusInput{
		Status:          enums.ProductStatusRejected,
		RejectionReason: &reason,
	})
	if len(result.Updated) != 1 || result.Updated[0] != goodID {
		t.Fatalf("expected only the pending listing to update, got %v", result.Updated)
	}
	if result.Failed != 1 {
		t.Fatalf("expected one failure, got %d", result.Failed)
	}
	if errs := multierr.Errors(err); len(errs) != 1 {
		t.Fatalf("expected one aggregated error, got %v", errs)
	}
}

func TestCreateListingValidation(t *testing.T) {
	svc := &service{repo: &stubListingStore{}, users: &stubAgentDirectory{}}
	sellerID := uuid.New()

	valid := CreateListingInput{
		Name:          "Balance bike",
		Description:   "Lightly used",
		Category:      "toys",
		AgeGroup:      "3-5y",
		Condition:     "Good",
		SellType:      "sell",
		OriginalPrice: decimal.NewFromInt(60),
		CurrentPrice:  decimal.NewFromInt(35),
	}

	t.Run("success", func(t *testing.T) {
		dto, err := svc.CreateListing(context.Background(), sellerID, valid)
		if err != nil {
			t.Fatalf("expected listing created, got %v", err)
		}
		if dto.Status != enums.ProductStatusPending {
			t.Fatalf("expected new listing to be pending, got %s", dto.Status)
		}
		if dto.SellerID != sellerID {
			t.Fatalf("expected seller recorded, got %s", dto.SellerID)
		}
	})

	t.Run("badCategory", func(t *testing.T) {
		input := valid
		input.Category = "rockets"
		_, err := svc.CreateListing(context.Background(), sellerID, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("priceAboveOriginal", func(t *testing.T) {
		input := valid
		input.CurrentPrice = decimal.NewFromInt(100)
		_, err := svc.CreateListing(context.Background(), sellerID, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestUpdateListingOnlyWhilePending(t *testing.T) {
	owner := uuid.New()
	listing := listingFixture(enums.ProductStatusReadyToPick)
	listing.SellerID = owner

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				return listing, nil
			},
		},
		users: &stubAgentDirectory{},
	}

	name := "Updated name"
	_, err := svc.UpdateListing(context.Background(), Actor{UserID: owner, Role: enums.UserRoleSeller}, listing.ID, UpdateListingInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteListingOwnership(t *testing.T) {
	owner := uuid.New()
	listing := listingFixture(enums.ProductStatusPending)
	listing.SellerID = owner

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				return listing, nil
			},
		},
		users: &stubAgentDirectory{},
	}

	err := svc.DeleteListing(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleSeller}, listing.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}

	if err := svc.DeleteListing(context.Background(), Actor{UserID: owner, Role: enums.UserRoleSeller}, listing.ID); err != nil {
		t.Fatalf("expected owner delete to succeed, got %v", err)
	}
}

func TestGetListingHidesUnapprovedFromBuyers(t *testing.T) {
	listing := listingFixture(enums.ProductStatusPending)

	svc := &service{
		repo: &stubListingStore{
			findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
				return listing, nil
			},
		},
		users: &stubAgentDirectory{},
	}

	buyer := Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}
	_, err := svc.GetListing(context.Background(), &buyer, listing.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for buyer, got %v", err)
	}

	ownerActor := Actor{UserID: listing.SellerID, Role: enums.UserRoleSeller}
	if _, err := svc.GetListing(context.Background(), &ownerActor, listing.ID); err != nil {
		t.Fatalf("expected owner to see pending listing, got %v", err)
	}
}
