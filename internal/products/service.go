package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/internal/users"
	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

type listingStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	UpdateStatusFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListProducts(ctx context.Context, query productListQuery) (*ProductListResult, error)
}

type agentDirectory interface {
	FindByIDAndRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo  *Repository
	Users *users.Repository
}

// Service exposes business rules for listing management and the
// approval/pickup workflow.
type Service interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, input CreateListingInput) (*ProductDTO, error)
	UpdateListing(ctx context.Context, actor Actor, id uuid.UUID, input UpdateListingInput) (*ProductDTO, error)
	DeleteListing(ctx context.Context, actor Actor, id uuid.UUID) error
	GetListing(ctx context.Context, actor *Actor, id uuid.UUID) (*ProductDTO, error)
	ListSellerListings(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	Browse(ctx context.Context, input BrowseInput) (*ProductListResult, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateStatusInput) (*ProductDTO, error)
	BulkUpdateStatus(ctx context.Context, actor Actor, ids []uuid.UUID, input UpdateStatusInput) (BulkStatusResult, error)
	AdminList(ctx context.Context, input AdminListInput) (*ProductListResult, error)
	ListUnapproved(ctx context.Context, params pagination.Params) (*ProductListResult, error)
}

type service struct {
	repo  listingStore
	users agentDirectory
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
	}, nil
}

// CreateListing persists a new listing in the Pending state.
func (s *service) CreateListing(ctx context.Context, sellerID uuid.UUID, input CreateListingInput) (*ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	model, err := buildListing(sellerID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert listing")
	}
	return FromModel(created), nil
}

// UpdateListing edits a listing. Only the owner may edit, and only while
// the listing is still Pending.
func (s *service) UpdateListing(ctx context.Context, actor Actor, id uuid.UUID, input UpdateListingInput) (*ProductDTO, error) {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actor.UserID && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing does not belong to user")
	}
	if listing.Status != enums.ProductStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending listings can be edited")
	}

	if err := applyUpdateToListing(listing, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}
	return FromModel(updated), nil
}

// DeleteListing removes a listing. Sellers may delete their own listings
// until they are sold; admins may delete any unsold listing.
func (s *service) DeleteListing(ctx context.Context, actor Actor, id uuid.UUID) error {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != actor.UserID && actor.Role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "listing does not belong to user")
	}
	if listing.Status == enums.ProductStatusSoldOut {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "sold listings cannot be deleted")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}

// GetListing returns a single listing. Listings that are not yet live are
// only visible to their owner and admins.
func (s *service) GetListing(ctx context.Context, actor *Actor, id uuid.UUID) (*ProductDTO, error) {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != enums.ProductStatusCompleted && listing.Status != enums.ProductStatusSoldOut {
		if actor == nil || (listing.SellerID != actor.UserID && actor.Role != enums.UserRoleAdmin) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
	}
	return FromModel(listing), nil
}

// ListSellerListings lists everything the seller has submitted.
func (s *service) ListSellerListings(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller listings")
	}
	listings := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		listings = append(listings, *FromModel(&rows[i]))
	}
	return listings, nil
}

// Browse lists the live storefront: completed listings only.
func (s *service) Browse(ctx context.Context, input BrowseInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		Sort:       input.Sort,
		Statuses:   []enums.ProductStatus{enums.ProductStatusCompleted},
		PageSize:   defaultBrowsePageSize,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse listings")
	}
	return result, nil
}

// UpdateStatus moves a listing through the approval/pickup workflow.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateStatusInput) (*ProductDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", input.Status))
	}

	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(actor.Role, listing.Status, input.Status); err != nil {
		return nil, err
	}

	updates := map[string]any{"status": input.Status}

	switch input.Status {
	case enums.ProductStatusReadyToPick:
		if input.PickupAgentID == nil || *input.PickupAgentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup agent is required")
		}
		if _, err := s.users.FindByIDAndRole(ctx, *input.PickupAgentID, enums.UserRoleDeliveryBoy); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup agent must be a delivery partner")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve pickup agent")
		}
		updates["pickup_agent_id"] = *input.PickupAgentID

	case enums.ProductStatusPicked, enums.ProductStatusCompleted:
		// Delivery partners can only act on their own assignments.
		if actor.Role == enums.UserRoleDeliveryBoy {
			if listing.PickupAgentID == nil || *listing.PickupAgentID != actor.UserID {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing is assigned to a different delivery partner")
			}
		}

	case enums.ProductStatusRejected:
		if input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
		}
		updates["rejection_reason"] = strings.TrimSpace(*input.RejectionReason)
	}

	if err := s.repo.UpdateStatusFields(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing status")
	}
	return s.GetListing(ctx, &actor, id)
}

// BulkUpdateStatus applies the same transition to many listings. Failures
// do not stop the batch; they are aggregated into the returned error.
func (s *service) BulkUpdateStatus(ctx context.Context, actor Actor, ids []uuid.UUID, input UpdateStatusInput) (BulkStatusResult, error) {
	if len(ids) == 0 {
		return BulkStatusResult{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one listing id is required")
	}

	result := BulkStatusResult{Updated: make([]uuid.UUID, 0, len(ids))}
	var combined error
	for _, id := range ids {
		if _, err := s.UpdateStatus(ctx, actor, id, input); err != nil {
			result.Failed++
			combined = multierr.Append(combined, fmt.Errorf("listing %s: %w", id, err))
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, combined
}

// AdminList runs the admin listing view with filters, sorting, and paging.
func (s *service) AdminList(ctx context.Context, input AdminListInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		Sort:       input.Sort,
		Unapproved: input.Unapproved,
		SellerID:   input.SellerID,
		PageSize:   defaultAdminPageSize,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return result, nil
}

// ListUnapproved lists every listing that has not yet reached the live state.
func (s *service) ListUnapproved(ctx context.Context, params pagination.Params) (*ProductListResult, error) {
	return s.AdminList(ctx, AdminListInput{
		Pagination: params,
		Unapproved: true,
	})
}

func (s *service) loadListing(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return listing, nil
}

func buildListing(sellerID uuid.UUID, input CreateListingInput) (*models.Product, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	ageGroup, err := enums.ParseProductAgeGroup(strings.TrimSpace(input.AgeGroup))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid age group")
	}
	condition, err := enums.ParseProductCondition(strings.TrimSpace(input.Condition))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
	}
	sellType, err := enums.ParseProductSellType(strings.TrimSpace(input.SellType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell type")
	}
	if err := checkPrices(input.OriginalPrice, input.CurrentPrice); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	return &models.Product{
		SellerID:      sellerID,
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Category:      category,
		AgeGroup:      ageGroup,
		Condition:     condition,
		SellType:      sellType,
		OriginalPrice: input.OriginalPrice,
		CurrentPrice:  input.CurrentPrice,
		Images:        input.Images,
		Status:        enums.ProductStatusPending,
	}, nil
}

func applyUpdateToListing(listing *models.Product, input UpdateListingInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		listing.Name = name
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*input.Category))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		listing.Category = category
	}
	if input.AgeGroup != nil {
		ageGroup, err := enums.ParseProductAgeGroup(strings.TrimSpace(*input.AgeGroup))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid age group")
		}
		listing.AgeGroup = ageGroup
	}
	if input.Condition != nil {
		condition, err := enums.ParseProductCondition(strings.TrimSpace(*input.Condition))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
		}
		listing.Condition = condition
	}
	if input.SellType != nil {
		sellType, err := enums.ParseProductSellType(strings.TrimSpace(*input.SellType))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell type")
		}
		listing.SellType = sellType
	}
	if input.OriginalPrice != nil {
		listing.OriginalPrice = *input.OriginalPrice
	}
	if input.CurrentPrice != nil {
		listing.CurrentPrice = *input.CurrentPrice
	}
	if err := checkPrices(listing.OriginalPrice, listing.CurrentPrice); err != nil {
		return err
	}
	if input.Images != nil {
		listing.Images = *input.Images
	}
	return nil
}

func checkPrices(original, current decimal.Decimal) error {
	if original.IsNegative() || current.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if current.GreaterThan(original) {
		return pkgerrors.New(pkgerrors.CodeValidation, "current price cannot exceed original price")
	}
	return nil
}
