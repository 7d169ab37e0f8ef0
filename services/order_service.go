package services

import (
	"fmt"
	"log"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// OrderService moves orders through the production pipeline:
// Pending -> Ready to Check -> Completed -> Finished. Cancellation is never
// an admin move; it only happens through the customer cancellation flow.
type OrderService struct {
	db            *gorm.DB
	conflicts     *ConflictService
	notifications *NotificationService
	queue         *QueueService
	now           func() time.Time
}

// NewOrderService builds an OrderService on the given database.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:            db,
		conflicts:     NewConflictService(db),
		notifications: NewNotificationService(db),
		queue:         NewQueueService(db),
		now:           time.Now,
	}
}

// SetNowFunc overrides the wall clock (primarily for testing).
func (s *OrderService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// UpdateOrderStatusInput carries the fields a status transition may require.
type UpdateOrderStatusInput struct {
	CheckAppointmentDate  string
	CheckAppointmentTime  string
	PickupAppointmentDate string
	PickupAppointmentTime string
	TotalAmount           *float64
}

// UpdateStatus applies an admin status change with its required fields,
// clears the handled flag, and recomputes queue numbers from the new
// derived date/time.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string, in UpdateOrderStatusInput) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Appointment").First(&order, orderID).Error; err != nil {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}

	updates := map[string]interface{}{
		"status":  newStatus,
		"handled": false,
	}

	switch newStatus {
	case models.OrderStatusPending:
		// allowed, no extra fields
	case models.OrderStatusReadyToCheck:
		date := NormalizeDate(in.CheckAppointmentDate)
		timeOfDay := NormalizeTimeHMS(in.CheckAppointmentTime)
		if date == "" || timeOfDay == "" {
			return nil, NewValidationError("check_appointment", "check appointment date and time are required")
		}
		if s.conflicts.HasConflict(date, timeOfDay, order.ID, 0) {
			return nil, &ConflictError{Date: date, Time: NormalizeTimeHM(timeOfDay)}
		}
		updates["check_appointment_date"] = date
		updates["check_appointment_time"] = timeOfDay
	case models.OrderStatusCompleted:
		date := NormalizeDate(in.PickupAppointmentDate)
		timeOfDay := NormalizeTimeHMS(in.PickupAppointmentTime)
		if date == "" || timeOfDay == "" {
			return nil, NewValidationError("pickup_appointment", "pickup appointment date and time are required")
		}
		if in.TotalAmount == nil {
			return nil, NewValidationError("total_amount", "total amount is required")
		}
		if s.conflicts.HasConflict(date, timeOfDay, order.ID, 0) {
			return nil, &ConflictError{Date: date, Time: NormalizeTimeHM(timeOfDay)}
		}
		updates["pickup_appointment_date"] = date
		updates["pickup_appointment_time"] = timeOfDay
		updates["total_amount"] = *in.TotalAmount
		updates["completed_at"] = s.now()
	case models.OrderStatusFinished:
		// terminal; releases the order's slots and removes it from the queue
	case models.OrderStatusCancelled:
		return nil, NewValidationError("status", "orders can only be cancelled through the customer cancellation flow")
	default:
		return nil, NewValidationError("status", fmt.Sprintf("unknown order status %q", newStatus))
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := s.queue.RecalculateQueueNumbers(); err != nil {
		// Queue numbers are display values recomputed on every read; a
		// failed recalculation must not undo the status change.
		log.Printf("queue recalculation after order %d update failed: %v", order.ID, err)
	}

	s.notifications.Notify(ToCustomer(order.Appointment.UserID), "order_status_changed",
		"Order status updated",
		fmt.Sprintf("Your order is now %s.", newStatus),
		models.NotificationData{"order_id": fmt.Sprint(order.ID), "status": newStatus})

	if err := s.db.Preload("Appointment").Preload("Appointment.User").First(&order, order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	return &order, nil
}

// MarkHandled records that an admin has acted on the order at its current
// status. The flag resets on the next status change.
func (s *OrderService) MarkHandled(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Appointment").First(&order, orderID).Error; err != nil {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	if err := s.db.Model(&order).Update("handled", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order handled: %w", err)
	}
	order.Handled = true
	return &order, nil
}
