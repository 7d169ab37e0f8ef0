package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment statuses (admin decision axis).
const (
	AppointmentStatusPending  = "pending"
	AppointmentStatusAccepted = "accepted"
	AppointmentStatusRejected = "rejected"
)

// Appointment states (customer-visible liveness axis).
const (
	AppointmentStateActive    = "active"
	AppointmentStateCancelled = "cancelled"
)

// Appointment represents a customer's booking request for a tailoring job.
// Dates are stored as "YYYY-MM-DD" and times as "HH:MM:SS" strings; legacy
// rows may carry "HH:MM" times or datetime-embedded dates, which readers
// normalize before comparing.
type Appointment struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"not null;index" json:"user_id"`
	User             User          `gorm:"foreignKey:UserID" json:"user"`
	ServiceType      string        `gorm:"not null" json:"service_type"`
	Sizes            SizeBreakdown `gorm:"type:text" json:"sizes"`
	TotalQuantity    int           `gorm:"not null" json:"total_quantity"`
	Notes            string        `json:"notes"`
	DesignImage      *string       `json:"design_image"`       // S3 key for the design reference image
	GcashProof       *string       `json:"gcash_proof"`        // S3 key for the downpayment proof
	RefundImage      *string       `json:"refund_image"`       // S3 key set once when a refund is issued
	DesignImageURL   *string       `gorm:"-" json:"design_image_url,omitempty"` // presigned, computed on read
	PreferredDueDate string        `json:"preferred_due_date"`
	AppointmentDate  string        `gorm:"not null;index" json:"appointment_date"`
	AppointmentTime  string        `gorm:"not null" json:"appointment_time"`
	Status           string        `gorm:"not null;default:'pending'" json:"status"` // pending, accepted, rejected
	State            *string       `gorm:"default:'active'" json:"state"`            // active, cancelled; null on legacy rows
	Order            *Order        `gorm:"foreignKey:AppointmentID" json:"order,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still occupies its slot on the
// appointment side. Legacy rows with a null state count as active.
func (a *Appointment) IsActive() bool {
	return a.State == nil || *a.State == AppointmentStateActive
}
