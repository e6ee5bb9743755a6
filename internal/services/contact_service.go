package services

import (
	"errors"

	"github.com/assetindex/asset-index/internal/models"
	"gorm.io/gorm"
)

// ContactInput carries the writable contact fields
type ContactInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
	Status       string `json:"status"`
}

// ListContacts returns all contacts owned by the user
func ListContacts(db *gorm.DB, userID string) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := db.Where("user_id = ?", userID).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetContact returns one contact the user owns
func GetContact(db *gorm.DB, userID, contactID string) (*models.Contact, error) {
	var contact models.Contact
	err := db.First(&contact, "contact_id = ? AND user_id = ?", contactID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact for the user
func CreateContact(db *gorm.DB, userID string, input ContactInput) (*models.Contact, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrInvalidInput
	}

	contact := models.Contact{
		UserID:       userID,
		Name:         input.Name,
		Email:        input.Email,
		Relationship: input.Relationship,
		Status:       input.Status,
	}
	if err := db.Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact updates a contact the user owns
func UpdateContact(db *gorm.DB, userID, contactID string, input ContactInput) (*models.Contact, error) {
	contact, err := GetContact(db, userID, contactID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.Email != "" {
		contact.Email = input.Email
	}
	if input.Relationship != "" {
		contact.Relationship = input.Relationship
	}
	if input.Status != "" {
		contact.Status = input.Status
	}

	if err := db.Save(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact the user owns, along with its assignments
func DeleteContact(db *gorm.DB, userID, contactID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("contact_id = ? AND user_id = ?", contactID, userID).Delete(&models.Contact{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("contact_id = ?", contactID).Delete(&models.AssetAssignment{}).Error
	})
}
