package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact statuses. Status is informational only in the monitor path: the
// monitor notifies every contact that has at least one assignment.
const (
	ContactStatusPending  = "Pending"
	ContactStatusActive   = "Active"
	ContactStatusDeclined = "Declined"
)

// Contact is a trusted contact belonging to exactly one user
type Contact struct {
	ContactID    string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:char(36);not null;index" json:"userId"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	Relationship string    `gorm:"size:20;not null;default:Family" json:"relationship"`
	Status       string    `gorm:"size:20;not null;default:Pending" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ContactID == "" {
		c.ContactID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
