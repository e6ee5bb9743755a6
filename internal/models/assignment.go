package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment permission levels
const (
	PermissionView       = "view"
	PermissionEdit       = "edit"
	PermissionFullAccess = "full_access"
)

// AssetAssignment grants one contact access to one asset at a permission
// level. At most one row exists per (contact, asset) pair; re-assigning the
// same pair updates the permission in place.
type AssetAssignment struct {
	AssignmentID    string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          string    `gorm:"type:char(36);not null;index" json:"userId"`
	ContactID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_contact_asset" json:"contactId"`
	AssetID         string    `gorm:"type:char(36);not null;uniqueIndex:idx_contact_asset" json:"assetId"`
	PermissionLevel string    `gorm:"size:20;not null;default:view" json:"permissionLevel"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Contact *Contact `gorm:"foreignKey:ContactID;references:ContactID" json:"contact,omitempty"`
	Asset   *Asset   `gorm:"foreignKey:AssetID;references:AssetID" json:"asset,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (a *AssetAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.AssignmentID == "" {
		a.AssignmentID = uuid.NewString()
	}
	return nil
}

// ValidPermission reports whether level is an accepted permission level
func ValidPermission(level string) bool {
	switch level {
	case PermissionView, PermissionEdit, PermissionFullAccess:
		return true
	}
	return false
}

// TableName overrides the table name for AssetAssignment
func (AssetAssignment) TableName() string {
	return "asset_assignments"
}
