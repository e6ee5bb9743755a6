package services

import (
	"errors"

	"github.com/assetindex/asset-index/internal/models"
	"gorm.io/gorm"
)

// DisclosureParty is the minimal identification exposed on the disclosure page
type DisclosureParty struct {
	Name string `json:"name"`
}

// DisclosurePayload is what a trusted contact sees after release
type DisclosurePayload struct {
	Contact DisclosureParty `json:"contact"`
	User    DisclosureParty `json:"user"`
	Assets  []models.Asset  `json:"assets"`
}

// GetDisclosure returns the disclosure payload for a (contact, owner) pairing.
// The caller proves possession of both IDs; no password is involved. Denials
// are deliberately coarse: a missing contact, a missing user, and a pairing
// mismatch are all ErrAccessDenied, and an unreleased owner is
// ErrNotAuthorized. Nothing else about the failure leaks.
//
// On success the full asset list of the owner is returned; the per-contact
// assignment scoping applies to the emailed disclosure, not this page.
func GetDisclosure(db *gorm.DB, contactID, ownerID string) (*DisclosurePayload, error) {
	var contact models.Contact
	if err := db.First(&contact, "contact_id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	var owner models.User
	if err := db.First(&owner, "user_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	if contact.UserID != owner.UserID {
		return nil, ErrAccessDenied
	}

	if !owner.AssetsReleased {
		return nil, ErrNotAuthorized
	}

	var assets []models.Asset
	if err := db.Where("user_id = ?", owner.UserID).Find(&assets).Error; err != nil {
		return nil, err
	}

	return &DisclosurePayload{
		Contact: DisclosureParty{Name: contact.Name},
		User:    DisclosureParty{Name: owner.Name},
		Assets:  assets,
	}, nil
}
