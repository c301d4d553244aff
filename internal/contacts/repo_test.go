package contacts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/pagination"
)

func setupContactTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  subject TEXT NOT NULL,
  message TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT 'general',
  status TEXT NOT NULL DEFAULT 'new',
  priority TEXT NOT NULL DEFAULT 'medium',
  assigned_to TEXT,
  response TEXT,
  responded_at DATETIME,
  responded_by TEXT,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func mustCreateInquiry(t *testing.T, repo *Repository, mutate func(*models.Contact)) *models.Contact {
	t.Helper()

	contact := &models.Contact{
		Name:     "Pat Jones",
		Email:    "pat@example.com",
		Subject:  "Order question",
		Message:  "Where is my order?",
		Category: enums.ContactCategoryOrder,
		Status:   enums.ContactStatusNew,
		Priority: enums.ContactPriorityMedium,
	}
	if mutate != nil {
		mutate(contact)
	}

	created, err := repo.Create(context.Background(), contact)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndUpdateInquiry(t *testing.T) {
	repo := NewRepository(setupContactTestDB(t))
	ctx := context.Background()

	created := mustCreateInquiry(t, repo, nil)
	require.NotEqual(t, uuid.Nil, created.ID)

	adminID := uuid.New()
	require.NoError(t, repo.UpdateFields(ctx, created.ID, map[string]any{
		"status":      enums.ContactStatusInProgress,
		"assigned_to": adminID,
		"is_read":     true,
	}))

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ContactStatusInProgress, loaded.Status)
	require.NotNil(t, loaded.AssignedTo)
	assert.Equal(t, adminID, *loaded.AssignedTo)
	assert.True(t, loaded.IsRead)
}

func TestRepositoryListFilters(t *testing.T) {
	repo := NewRepository(setupContactTestDB(t))
	ctx := context.Background()

	// Unique subject marker keeps this test isolated in the shared db.
	marker := uuid.NewString()
	mustCreateInquiry(t, repo, func(c *models.Contact) {
		c.Subject = "refund " + marker
		c.Status = enums.ContactStatusNew
	})
	mustCreateInquiry(t, repo, func(c *models.Contact) {
		c.Subject = "refund " + marker
		c.Status = enums.ContactStatusResolved
		c.IsRead = true
	})
	mustCreateInquiry(t, repo, func(c *models.Contact) {
		c.Subject = "shipping " + marker
		c.Priority = enums.ContactPriorityUrgent
	})

	t.Run("byStatus", func(t *testing.T) {
		status := enums.ContactStatusResolved
		rows, _, err := repo.List(ctx, contactListQuery{
			Pagination: pagination.Params{},
			Filters:    ContactListFilters{Status: &status, Query: marker},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, enums.ContactStatusResolved, rows[0].Status)
	})

	t.Run("unreadOnly", func(t *testing.T) {
		unread := true
		rows, _, err := repo.List(ctx, contactListQuery{
			Pagination: pagination.Params{},
			Filters:    ContactListFilters{Unread: &unread, Query: marker},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.False(t, row.IsRead)
		}
	})

	t.Run("search", func(t *testing.T) {
		rows, meta, err := repo.List(ctx, contactListQuery{
			Pagination: pagination.Params{},
			Filters:    ContactListFilters{Query: "shipping " + marker},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, enums.ContactPriorityUrgent, rows[0].Priority)
		assert.Equal(t, 1, meta.TotalItems)
	})
}

func TestRepositoryCloseInquiry(t *testing.T) {
	repo := NewRepository(setupContactTestDB(t))
	ctx := context.Background()

	created := mustCreateInquiry(t, repo, nil)

	require.NoError(t, repo.UpdateFields(ctx, created.ID, map[string]any{
		"status": enums.ContactStatusClosed,
	}))

	closed, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ContactStatusClosed, closed.Status)
}
