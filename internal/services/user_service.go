package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/assetindex/asset-index/internal/models"
	"github.com/assetindex/asset-index/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateProfileInput carries the settings that can change. Zero values leave
// the current setting untouched; GracePeriod accepts "7" or 7 on the wire.
type UpdateProfileInput struct {
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	CheckInFrequency string         `json:"checkInFrequency"`
	GracePeriod      *types.FlexInt `json:"gracePeriod"`
	Password         string         `json:"password"`
}

// GetProfile returns the user record
func GetProfile(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the provided settings and returns the updated user
func UpdateProfile(db *gorm.DB, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := GetProfile(db, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.CheckInFrequency != "" {
		if !models.ValidFrequency(input.CheckInFrequency) {
			return nil, fmt.Errorf("%w: unknown check-in frequency %q", ErrInvalidInput, input.CheckInFrequency)
		}
		user.CheckInFrequency = input.CheckInFrequency
	}
	if input.GracePeriod != nil {
		if input.GracePeriod.Int() < 1 {
			return nil, fmt.Errorf("%w: grace period must be positive", ErrInvalidInput)
		}
		user.GracePeriod = input.GracePeriod.Int()
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CheckIn resets the inactivity clock: lastCheckIn moves to now and both
// monitoring flags clear, in one atomic update.
func CheckIn(db *gorm.DB, userID string, now time.Time) (*models.User, error) {
	res := db.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"last_check_in":   now,
		"warning_sent":    false,
		"assets_released": false,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetProfile(db, userID)
}

// ResetForTesting clears the released flag and moves lastCheckIn to now for
// one user, or for every user when userID is empty. warning_sent is left
// alone. Operator tooling only.
func ResetForTesting(db *gorm.DB, userID string, now time.Time) (int64, error) {
	tx := db.Model(&models.User{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	} else {
		tx = tx.Where("1 = 1")
	}
	res := tx.Updates(map[string]interface{}{
		"assets_released": false,
		"last_check_in":   now,
	})
	return res.RowsAffected, res.Error
}
