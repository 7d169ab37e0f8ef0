package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Notification recipient kinds. A notification targets either a single
// customer or the whole admin staff; the two are distinguished by a tag
// rather than a magic user id.
const (
	RecipientCustomer  = "customer"
	RecipientAllAdmins = "admins"
)

// NotificationData is an arbitrary key-value payload attached to a
// notification, persisted as a JSON text column.
type NotificationData map[string]string

// Value implements driver.Valuer.
func (d NotificationData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *NotificationData) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported notification data column type %T", value)
	}
	return json.Unmarshal(raw, d)
}

// Notification is a persisted message that clients poll for. There is no
// push channel; delivery is: write row, client fetches on its next poll.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	RecipientType string           `gorm:"not null;index" json:"-"` // "customer" or "admins"
	RecipientID   *uint            `gorm:"index" json:"-"`          // set only for customer recipients
	UserID        uint             `gorm:"-" json:"user_id"`        // legacy wire shape: 0 means "all admins"
	Type          string           `gorm:"not null" json:"type"`
	Title         string           `gorm:"not null" json:"title"`
	Body          string           `json:"body"`
	Data          NotificationData `gorm:"type:text" json:"data"`
	ReadAt        *time.Time       `json:"read_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// AfterFind populates the legacy user_id wire field from the tagged recipient.
func (n *Notification) AfterFind(tx *gorm.DB) error {
	if n.RecipientType == RecipientCustomer && n.RecipientID != nil {
		n.UserID = *n.RecipientID
	} else {
		n.UserID = 0
	}
	return nil
}
