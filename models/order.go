package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Finished and Cancelled are terminal for scheduling:
// orders in either state release their time slots and leave the queue.
const (
	OrderStatusPending      = "Pending"
	OrderStatusReadyToCheck = "Ready to Check"
	OrderStatusCompleted    = "Completed"
	OrderStatusFinished     = "Finished"
	OrderStatusCancelled    = "Cancelled"
)

// OrderTerminalStatuses lists the statuses excluded from conflict checks,
// availability, and queue computation.
var OrderTerminalStatuses = []string{OrderStatusFinished, OrderStatusCancelled}

// Order represents a tailoring job created when an admin accepts an
// appointment. Each order owns exactly one appointment.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AppointmentID uint        `gorm:"not null;uniqueIndex" json:"appointment_id"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID" json:"appointment"`
	Status        string      `gorm:"not null;default:'Pending'" json:"status"`
	QueueNumber   int         `json:"queue_number"` // dense 1-based rank within the derived-date group
	Handled       bool        `gorm:"not null;default:false" json:"handled"`
	ScheduledAt   *time.Time  `json:"scheduled_at"`
	CompletedAt   *time.Time  `json:"completed_at"`
	TotalAmount   *float64    `json:"total_amount"`

	// Admin-set follow-up slots; same string conventions as Appointment.
	CheckAppointmentDate  *string `json:"check_appointment_date"`
	CheckAppointmentTime  *string `json:"check_appointment_time"`
	PickupAppointmentDate *string `json:"pickup_appointment_date"`
	PickupAppointmentTime *string `json:"pickup_appointment_time"`

	RefundImage *string        `json:"refund_image"` // S3 key, set once after cancellation
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order has reached Finished or Cancelled.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusFinished || o.Status == OrderStatusCancelled
}
