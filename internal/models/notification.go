package models

import "time"

// Notification kinds recorded by the monitor
const (
	NotificationWarning    = "warning"
	NotificationDisclosure = "disclosure"
)

// NotificationLog is an audit record of a successfully delivered notification.
// ContactID is empty for warnings, which go to the user's own address.
type NotificationLog struct {
	LogID     uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:char(36);not null;index" json:"userId"`
	ContactID string    `gorm:"type:char(36)" json:"contactId,omitempty"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	Recipient string    `gorm:"size:255;not null" json:"recipient"`
	Payload   JSON      `gorm:"type:json" json:"payload,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}
