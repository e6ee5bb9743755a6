package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is a registered asset belonging to exactly one user.
//
// AccessInstructions and AccessKey are stored in PLAINTEXT. There is no
// at-rest encryption of disclosure material; do not put anything here that
// the database operator must not read.
type Asset struct {
	AssetID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID             string    `gorm:"type:char(36);not null;index" json:"userId"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	Type               string    `gorm:"size:50;not null;default:Other" json:"type"`
	Value              string    `gorm:"size:50;default:0" json:"value"`
	Description        string    `gorm:"size:500" json:"description"`
	AccessInstructions string    `gorm:"type:text;not null" json:"accessInstructions"`
	AccessKey          string    `gorm:"type:text" json:"accessKey"`
	Sensitivity        string    `gorm:"size:20;not null;default:Medium" json:"sensitivity"`
	IsArchived         bool      `gorm:"not null;default:false" json:"isArchived"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == "" {
		a.AssetID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Asset
func (Asset) TableName() string {
	return "assets"
}
