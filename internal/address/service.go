package address

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
)

type addressStore interface {
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	Update(ctx context.Context, addr *models.Address) (*models.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}

// ServiceParams groups dependencies for the address service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes saved delivery address management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*AddressDTO, error)
}

type service struct {
	repo addressStore
}

// NewService builds an address service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns the user's saved addresses, default first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// Create saves a new address. The user's first address always becomes the
// default.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
	}

	addr := &models.Address{
		UserID:     userID,
		Label:      strings.TrimSpace(input.Label),
		Recipient:  strings.TrimSpace(input.Recipient),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
	}
	if addr.Label == "" || addr.Recipient == "" || addr.Line1 == "" || addr.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label, recipient, line1, and city are required")
	}

	created, err := s.repo.Create(ctx, addr)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert address")
	}

	if input.IsDefault || count == 0 {
		if err := s.repo.SetDefault(ctx, userID, created.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		created.IsDefault = true
	}
	return FromModel(created), nil
}

// Update edits an address owned by the user.
func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error) {
	addr, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(addr, input)

	updated, err := s.repo.Update(ctx, addr)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return FromModel(updated), nil
}

// Delete removes an address owned by the user.
func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	removed, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

// SetDefault marks the address as the user's default delivery target.
func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.SetDefault(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	addr, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(addr), nil
}

func (s *service) loadOwned(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	addr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return addr, nil
}

func applyUpdate(addr *models.Address, input UpdateAddressInput) {
	if input.Label != nil {
		addr.Label = strings.TrimSpace(*input.Label)
	}
	if input.Recipient != nil {
		addr.Recipient = strings.TrimSpace(*input.Recipient)
	}
	if input.Phone != nil {
		addr.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Line1 != nil {
		addr.Line1 = strings.TrimSpace(*input.Line1)
	}
	if input.Line2 != nil {
		addr.Line2 = input.Line2
	}
	if input.City != nil {
		addr.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		addr.State = strings.TrimSpace(*input.State)
	}
	if input.PostalCode != nil {
		addr.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
}
