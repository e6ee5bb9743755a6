package services

import (
	"errors"

	"github.com/assetindex/asset-index/internal/models"
	"gorm.io/gorm"
)

// AssetInput carries the writable asset fields. AccessInstructions and
// AccessKey are persisted as-is, in plaintext.
type AssetInput struct {
	Name               string `json:"name"`
	Type               string `json:"type"`
	Value              string `json:"value"`
	Description        string `json:"description"`
	AccessInstructions string `json:"accessInstructions"`
	AccessKey          string `json:"accessKey"`
	Sensitivity        string `json:"sensitivity"`
	IsArchived         *bool  `json:"isArchived"`
}

// ListAssets returns all assets owned by the user
func ListAssets(db *gorm.DB, userID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := db.Where("user_id = ?", userID).Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// CreateAsset creates an asset for the user
func CreateAsset(db *gorm.DB, userID string, input AssetInput) (*models.Asset, error) {
	if input.Name == "" || input.AccessInstructions == "" {
		return nil, ErrInvalidInput
	}

	asset := models.Asset{
		UserID:             userID,
		Name:               input.Name,
		Type:               input.Type,
		Value:              input.Value,
		Description:        input.Description,
		AccessInstructions: input.AccessInstructions,
		AccessKey:          input.AccessKey,
		Sensitivity:        input.Sensitivity,
	}
	if err := db.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset updates an asset the user owns
func UpdateAsset(db *gorm.DB, userID, assetID string, input AssetInput) (*models.Asset, error) {
	var asset models.Asset
	err := db.First(&asset, "asset_id = ? AND user_id = ?", assetID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		asset.Name = input.Name
	}
	if input.Type != "" {
		asset.Type = input.Type
	}
	if input.Value != "" {
		asset.Value = input.Value
	}
	if input.Description != "" {
		asset.Description = input.Description
	}
	if input.AccessInstructions != "" {
		asset.AccessInstructions = input.AccessInstructions
	}
	if input.AccessKey != "" {
		asset.AccessKey = input.AccessKey
	}
	if input.Sensitivity != "" {
		asset.Sensitivity = input.Sensitivity
	}
	if input.IsArchived != nil {
		asset.IsArchived = *input.IsArchived
	}

	if err := db.Save(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAsset removes an asset the user owns, along with its assignments
func DeleteAsset(db *gorm.DB, userID, assetID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("asset_id = ? AND user_id = ?", assetID, userID).Delete(&models.Asset{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("asset_id = ?", assetID).Delete(&models.AssetAssignment{}).Error
	})
}
