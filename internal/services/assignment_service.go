// assignment_service.go
//
// Digital dead-man's-switch backend for the Asset Index service
// Copyright (c) 2026 Asset Index
//
// This file is part of asset-index.
// asset-index is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// asset-index is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with asset-index.
// If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"errors"
	"fmt"

	"github.com/assetindex/asset-index/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentInput is one (asset, permission) grant in an assignment request
type AssignmentInput struct {
	AssetID         string `json:"assetId"`
	PermissionLevel string `json:"permissionLevel"`
}

// AssignAssets grants a contact access to a batch of assets. The contact and
// every asset must belong to the user. Each (contact, asset) pair is upserted:
// a repeated grant updates the permission level of the existing row instead of
// creating a duplicate.
func AssignAssets(db *gorm.DB, userID, contactID string, items []AssignmentInput) ([]models.AssetAssignment, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no assignments given", ErrInvalidInput)
	}

	if _, err := GetContact(db, userID, contactID); err != nil {
		return nil, err
	}

	assetIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.PermissionLevel != "" && !models.ValidPermission(item.PermissionLevel) {
			return nil, fmt.Errorf("%w: unknown permission level %q", ErrInvalidInput, item.PermissionLevel)
		}
		assetIDs = append(assetIDs, item.AssetID)
	}

	var assetCount int64
	if err := db.Model(&models.Asset{}).
		Where("asset_id IN ? AND user_id = ?", assetIDs, userID).
		Count(&assetCount).Error; err != nil {
		return nil, err
	}
	if assetCount != int64(len(assetIDs)) {
		return nil, ErrNotFound
	}

	var out []models.AssetAssignment
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			level := item.PermissionLevel
			if level == "" {
				level = models.PermissionView
			}
			assignment := models.AssetAssignment{
				UserID:          userID,
				ContactID:       contactID,
				AssetID:         item.AssetID,
				PermissionLevel: level,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "contact_id"}, {Name: "asset_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"permission_level", "updated_at"}),
			}).Create(&assignment).Error; err != nil {
				return err
			}

			// Reload to return the surviving row, not the candidate insert
			var saved models.AssetAssignment
			if err := tx.First(&saved, "contact_id = ? AND asset_id = ?", contactID, item.AssetID).Error; err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAssignments returns all assignments the user has made, with the related
// contact and asset resolved.
func ListAssignments(db *gorm.DB, userID string) ([]models.AssetAssignment, error) {
	var assignments []models.AssetAssignment
	err := db.Preload("Contact").Preload("Asset").
		Where("user_id = ?", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListContactAssignments returns the user's assignments for one contact
func ListContactAssignments(db *gorm.DB, userID, contactID string) ([]models.AssetAssignment, error) {
	if _, err := GetContact(db, userID, contactID); err != nil {
		return nil, err
	}

	var assignments []models.AssetAssignment
	err := db.Preload("Asset").
		Where("user_id = ? AND contact_id = ?", userID, contactID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpdateAssignment changes the permission level of one assignment
func UpdateAssignment(db *gorm.DB, userID, assignmentID, level string) (*models.AssetAssignment, error) {
	if !models.ValidPermission(level) {
		return nil, fmt.Errorf("%w: unknown permission level %q", ErrInvalidInput, level)
	}

	var assignment models.AssetAssignment
	err := db.First(&assignment, "assignment_id = ? AND user_id = ?", assignmentID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assignment.PermissionLevel = level
	if err := db.Save(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// RemoveAssignment deletes one assignment the user owns
func RemoveAssignment(db *gorm.DB, userID, assignmentID string) error {
	res := db.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		Delete(&models.AssetAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
