package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kidcycle/kidcycle-backend/pkg/enums"
)

// Contact is a support inquiry submitted through the public form.
type Contact struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Email       string                `gorm:"column:email;not null"`
	Subject     string                `gorm:"column:subject;not null"`
	Message     string                `gorm:"column:message;not null"`
	Category    enums.ContactCategory `gorm:"column:category;type:text;not null;default:'general'"`
	Status      enums.ContactStatus   `gorm:"column:status;type:text;not null;default:'new'"`
	Priority    enums.ContactPriority `gorm:"column:priority;type:text;not null;default:'medium'"`
	AssignedTo  *uuid.UUID            `gorm:"column:assigned_to;type:uuid"`
	Response    *string               `gorm:"column:response"`
	RespondedAt *time.Time            `gorm:"column:responded_at"`
	RespondedBy *uuid.UUID            `gorm:"column:responded_by;type:uuid"`
	IsRead      bool                  `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
