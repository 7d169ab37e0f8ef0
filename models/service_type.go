package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceType is reference data for the kinds of tailoring work the shop
// offers and the downpayment each requires.
type ServiceType struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"uniqueIndex;not null" json:"name"`
	DownpaymentAmount float64        `gorm:"not null" json:"downpayment_amount"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}
