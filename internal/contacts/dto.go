package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

// ContactDTO is the transport shape for a support inquiry.
type ContactDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Subject     string                `json:"subject"`
	Message     string                `json:"message"`
	Category    enums.ContactCategory `json:"category"`
	Status      enums.ContactStatus   `json:"status"`
	Priority    enums.ContactPriority `json:"priority"`
	AssignedTo  *uuid.UUID            `json:"assigned_to,omitempty"`
	Response    *string               `json:"response,omitempty"`
	RespondedAt *time.Time            `json:"responded_at,omitempty"`
	RespondedBy *uuid.UUID            `json:"responded_by,omitempty"`
	IsRead      bool                  `json:"is_read"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// FromModel maps the persistence model into the transport DTO.
func FromModel(c *models.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Subject:     c.Subject,
		Message:     c.Message,
		Category:    c.Category,
		Status:      c.Status,
		Priority:    c.Priority,
		AssignedTo:  c.AssignedTo,
		Response:    c.Response,
		RespondedAt: c.RespondedAt,
		RespondedBy: c.RespondedBy,
		IsRead:      c.IsRead,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// SubmitInput holds the public contact form fields.
type SubmitInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Category string `json:"category,omitempty"`
}

// UpdateInput carries back office edits to an inquiry.
type UpdateInput struct {
	Status     *string    `json:"status,omitempty"`
	Priority   *string    `json:"priority,omitempty"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
}

// ContactListFilters describe the back office listing filter knobs.
type ContactListFilters struct {
	Status   *enums.ContactStatus   `json:"status,omitempty"`
	Priority *enums.ContactPriority `json:"priority,omitempty"`
	Category *enums.ContactCategory `json:"category,omitempty"`
	Unread   *bool                  `json:"unread,omitempty"`
	Query    string                 `json:"q,omitempty"`
}

// ContactStats aggregates the queue state for the back office dashboard.
type ContactStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Unread     int64 `json:"unread"`
}

// ContactList is a page of inquiries plus queue stats.
type ContactList struct {
	Contacts []ContactDTO    `json:"contacts"`
	Meta     pagination.Meta `json:"meta"`
	Stats    ContactStats    `json:"stats"`
}

type contactListQuery struct {
	Pagination pagination.Params
	Filters    ContactListFilters
}
