package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Check-in frequency values accepted from the settings surface. "5 Minutes"
// exists solely so the same state machine can be exercised on a test cadence.
const (
	FrequencyFiveMinutes = "5 Minutes"
	FrequencyWeekly      = "Weekly"
	FrequencyMonthly     = "Monthly"
	FrequencyYearly      = "Yearly"
)

// User owns its own monitoring state. GracePeriod is interpreted in minutes
// when CheckInFrequency is "5 Minutes" and in days otherwise.
type User struct {
	UserID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string    `gorm:"size:60;not null" json:"name"`
	Email            string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"size:100;not null" json:"-"`
	CheckInFrequency string    `gorm:"size:20;not null;default:Monthly" json:"checkInFrequency"`
	GracePeriod      int       `gorm:"not null;default:7" json:"gracePeriod"`
	LastCheckIn      time.Time `gorm:"not null" json:"lastCheckIn"`
	WarningSent      bool      `gorm:"not null;default:false" json:"warningSent"`
	AssetsReleased   bool      `gorm:"not null;default:false;index:idx_users_assets_released" json:"assetsReleased"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.LastCheckIn.IsZero() {
		u.LastCheckIn = time.Now().UTC()
	}
	return nil
}

// ValidFrequency reports whether f is one of the accepted check-in frequencies
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyFiveMinutes, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
