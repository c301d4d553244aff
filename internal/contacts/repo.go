package contacts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

const defaultContactPageSize = 20

// Repository exposes support inquiry persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contacts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new inquiry row.
func (r *Repository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// FindByID loads an inquiry by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateFields applies partial updates to an inquiry.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// List runs a filtered, paginated inquiry query, newest first.
func (r *Repository) List(ctx context.Context, query contactListQuery) ([]models.Contact, pagination.Meta, error) {
	params := pagination.Normalize(query.Pagination, defaultContactPageSize)

	base := func() *gorm.DB {
		qb := r.db.WithContext(ctx).Model(&models.Contact{})
		return applyContactFilters(qb, query.Filters)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Contact
	err := base().
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return rows, pagination.BuildMeta(params, int(total), len(rows)), nil
}

// Stats aggregates the queue by status plus the unread backlog.
func (r *Repository) Stats(ctx context.Context) (ContactStats, error) {
	type statusCount struct {
		Status enums.ContactStatus
		Count  int64
	}

	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).
		Error
	if err != nil {
		return ContactStats{}, err
	}

	var stats ContactStats
	for _, row := range counts {
		stats.Total += row.Count
		switch row.Status {
		case enums.ContactStatusNew:
			stats.New = row.Count
		case enums.ContactStatusInProgress:
			stats.InProgress = row.Count
		case enums.ContactStatusResolved:
			stats.Resolved = row.Count
		case enums.ContactStatusClosed:
			stats.Closed = row.Count
		}
	}

	err = r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("is_read = ?", false).
		Count(&stats.Unread).
		Error
	if err != nil {
		return ContactStats{}, err
	}
	return stats, nil
}

func applyContactFilters(qb *gorm.DB, filters ContactListFilters) *gorm.DB {
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		qb = qb.Where("priority = ?", *filters.Priority)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.Unread != nil {
		qb = qb.Where("is_read = ?", !*filters.Unread)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(subject) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern, pattern)
	}
	return qb
}
