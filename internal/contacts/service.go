package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

type inquiryStore interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, query contactListQuery) ([]models.Contact, pagination.Meta, error)
	Stats(ctx context.Context) (ContactStats, error)
}

// ServiceParams groups dependencies for the contact service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes the public contact form and the back office queue.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*ContactDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error)
	List(ctx context.Context, filters ContactListFilters, params pagination.Params) (*ContactList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ContactDTO, error)
	Respond(ctx context.Context, adminID, id uuid.UUID, response string) (*ContactDTO, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo inquiryStore
	now  func() time.Time
}

// NewService builds a contact service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contacts repo is required")
	}
	return &service{repo: params.Repo, now: time.Now}, nil
}

// Submit files a new inquiry from the public form.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*ContactDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || subject == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email, subject, and message are required")
	}

	category := enums.ContactCategoryGeneral
	if raw := strings.TrimSpace(input.Category); raw != "" {
		parsed, err := enums.ParseContactCategory(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		category = parsed
	}

	created, err := s.repo.Create(ctx, &models.Contact{
		Name:     name,
		Email:    email,
		Subject:  subject,
		Message:  message,
		Category: category,
		Status:   enums.ContactStatusNew,
		Priority: enums.ContactPriorityMedium,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert inquiry")
	}
	return FromModel(created), nil
}

// Get returns a single inquiry.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error) {
	contact, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(contact), nil
}

// List pages through the queue with filters plus dashboard stats.
func (s *service) List(ctx context.Context, filters ContactListFilters, params pagination.Params) (*ContactList, error) {
	rows, meta, err := s.repo.List(ctx, contactListQuery{Pagination: params, Filters: filters})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inquiries")
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry stats")
	}

	dtos := make([]ContactDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ContactList{Contacts: dtos, Meta: meta, Stats: stats}, nil
}

// Update edits queue metadata on an inquiry.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ContactDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Status != nil {
		status, err := enums.ParseContactStatus(strings.TrimSpace(*input.Status))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		updates["status"] = status
	}
	if input.Priority != nil {
		priority, err := enums.ParseContactPriority(strings.TrimSpace(*input.Priority))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
		updates["priority"] = priority
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = *input.AssignedTo
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inquiry")
	}
	return s.Get(ctx, id)
}

// Respond records the admin's reply and resolves the inquiry.
func (s *service) Respond(ctx context.Context, adminID, id uuid.UUID, response string) (*ContactDTO, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response is required")
	}

	contact, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.Status == enums.ContactStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "inquiry is closed")
	}

	err = s.repo.UpdateFields(ctx, id, map[string]any{
		"response":     response,
		"responded_at": s.now(),
		"responded_by": adminID,
		"status":       enums.ContactStatusResolved,
		"is_read":      true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record response")
	}
	return s.Get(ctx, id)
}

// MarkRead flags the inquiry as seen by the back office.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]any{"is_read": true}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark inquiry read")
	}
	return nil
}

// Delete retires the inquiry. The row is kept for audit; only the status
// moves to closed.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]any{"status": enums.ContactStatusClosed}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close inquiry")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry id is required")
	}
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry")
	}
	return contact, nil
}
