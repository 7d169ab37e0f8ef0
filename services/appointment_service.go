package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// AppointmentService drives the appointment lifecycle: customer booking,
// admin accept/reject, customer self-cancel, and the refund workflow.
type AppointmentService struct {
	db            *gorm.DB
	conflicts     *ConflictService
	notifications *NotificationService
	now           func() time.Time
}

// NewAppointmentService builds an AppointmentService on the given database.
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{
		db:            db,
		conflicts:     NewConflictService(db),
		notifications: NewNotificationService(db),
		now:           time.Now,
	}
}

// SetNowFunc overrides the wall clock (primarily for testing).
func (s *AppointmentService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// BookAppointmentInput carries the customer-supplied booking fields.
type BookAppointmentInput struct {
	ServiceType      string
	Sizes            models.SizeBreakdown
	TotalQuantity    int
	Notes            string
	DesignImage      *string
	GcashProof       *string
	PreferredDueDate string
	AppointmentDate  string
	AppointmentTime  string
}

// Book validates a booking request and creates a pending, active
// appointment for the customer. The requested slot must be free.
func (s *AppointmentService) Book(userID uint, in BookAppointmentInput) (*models.Appointment, error) {
	if strings.TrimSpace(in.ServiceType) == "" {
		return nil, NewValidationError("service_type", "service type is required")
	}
	if in.AppointmentDate == "" {
		return nil, NewValidationError("appointment_date", "appointment date is required")
	}
	requested, ok := ParseBookingDate(in.AppointmentDate)
	if !ok {
		return nil, NewValidationError("appointment_date", "appointment date could not be parsed")
	}
	date := requested.Format("2006-01-02")
	if date < s.now().Format("2006-01-02") {
		return nil, NewValidationError("appointment_date", "appointment date must not be in the past")
	}
	timeOfDay := NormalizeTimeHMS(in.AppointmentTime)
	if timeOfDay == "" {
		return nil, NewValidationError("appointment_time", "appointment time is required")
	}
	if err := in.Sizes.Validate(); err != nil {
		return nil, NewValidationError("sizes", err.Error())
	}
	total := in.TotalQuantity
	if len(in.Sizes) > 0 {
		if total == 0 {
			total = in.Sizes.Total()
		} else if total != in.Sizes.Total() {
			return nil, NewValidationError("total_quantity", "total quantity must equal the sum of size quantities")
		}
	}
	if total <= 0 {
		return nil, NewValidationError("total_quantity", "total quantity must be positive")
	}

	if s.conflicts.HasConflict(date, timeOfDay, 0, 0) {
		return nil, &ConflictError{Date: date, Time: NormalizeTimeHM(timeOfDay)}
	}

	state := models.AppointmentStateActive
	appointment := models.Appointment{
		UserID:           userID,
		ServiceType:      in.ServiceType,
		Sizes:            in.Sizes,
		TotalQuantity:    total,
		Notes:            in.Notes,
		DesignImage:      in.DesignImage,
		GcashProof:       in.GcashProof,
		PreferredDueDate: NormalizeDate(in.PreferredDueDate),
		AppointmentDate:  date,
		AppointmentTime:  timeOfDay,
		Status:           models.AppointmentStatusPending,
		State:            &state,
	}
	if err := s.db.Create(&appointment).Error; err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	data := models.NotificationData{"appointment_id": fmt.Sprint(appointment.ID)}
	s.notifications.Notify(ToCustomer(userID), "appointment_booked",
		"Appointment booked",
		fmt.Sprintf("Your %s appointment on %s at %s is awaiting confirmation.", in.ServiceType, date, NormalizeTimeHM(timeOfDay)),
		data)
	s.notifications.Notify(ToAllAdmins(), "appointment_booked",
		"New appointment request",
		fmt.Sprintf("A customer booked %s on %s at %s.", in.ServiceType, date, NormalizeTimeHM(timeOfDay)),
		data)

	return &appointment, nil
}

// Accept turns a pending appointment into an order. The order starts as
// Pending with a queue number taken from its chronological position among
// the day's other scheduled appointments.
func (s *AppointmentService) Accept(appointmentID uint) (*models.Order, error) {
	var appointment models.Appointment
	if err := s.db.Preload("Order").First(&appointment, appointmentID).Error; err != nil {
		return nil, &NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if appointment.Status != models.AppointmentStatusPending {
		return nil, NewValidationError("status", "only pending appointments can be accepted")
	}
	if !appointment.IsActive() {
		return nil, NewValidationError("state", "cancelled appointments cannot be accepted")
	}
	if appointment.Order != nil {
		return nil, NewValidationError("order", "appointment already has an order")
	}

	scheduledAt := s.appointmentMoment(&appointment)
	order := models.Order{
		AppointmentID: appointment.ID,
		Status:        models.OrderStatusPending,
		QueueNumber:   s.queuePositionFor(&appointment),
		ScheduledAt:   scheduledAt,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.db.Model(&appointment).Update("status", models.AppointmentStatusAccepted).Error; err != nil {
		return nil, fmt.Errorf("failed to accept appointment: %w", err)
	}

	s.notifications.Notify(ToCustomer(appointment.UserID), "appointment_accepted",
		"Appointment accepted",
		fmt.Sprintf("Your appointment on %s at %s has been accepted.", appointment.AppointmentDate, NormalizeTimeHM(appointment.AppointmentTime)),
		models.NotificationData{"order_id": fmt.Sprint(order.ID)})

	if err := s.db.Preload("Appointment").Preload("Appointment.User").First(&order, order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	return &order, nil
}

// Reject marks a pending appointment rejected. A refund image is required;
// without one nothing is mutated.
func (s *AppointmentService) Reject(appointmentID uint, refundImageKey string) error {
	if refundImageKey == "" {
		return NewValidationError("refund_image", "refund image is required to reject an appointment")
	}
	var appointment models.Appointment
	if err := s.db.Preload("Order").First(&appointment, appointmentID).Error; err != nil {
		return &NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if appointment.Status == models.AppointmentStatusRejected {
		return NewValidationError("status", "appointment is already rejected")
	}

	updates := map[string]interface{}{
		"status":       models.AppointmentStatusRejected,
		"state":        models.AppointmentStateCancelled,
		"refund_image": refundImageKey,
	}
	if err := s.db.Model(&appointment).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reject appointment: %w", err)
	}
	if appointment.Order != nil {
		if err := s.cancelOrder(appointment.Order); err != nil {
			return err
		}
	}

	s.notifications.Notify(ToCustomer(appointment.UserID), "appointment_rejected",
		"Appointment rejected",
		"Your appointment was rejected. Your downpayment refund proof is attached.",
		models.NotificationData{"appointment_id": fmt.Sprint(appointment.ID)})
	return nil
}

// Cancel is the customer self-cancel flow. Only the owner may cancel, and
// only while the appointment is still pending with no order, or while its
// order is Pending and not yet handled by an admin.
func (s *AppointmentService) Cancel(appointmentID, callerID uint) error {
	var appointment models.Appointment
	if err := s.db.Preload("Order").First(&appointment, appointmentID).Error; err != nil {
		return &NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if appointment.UserID != callerID {
		return &AuthorizationError{Message: "you can only cancel your own appointments"}
	}
	if !appointment.IsActive() {
		return NewValidationError("state", "appointment is already cancelled")
	}

	if appointment.Order == nil {
		if appointment.Status != models.AppointmentStatusPending {
			return NewValidationError("status", "appointment can no longer be cancelled")
		}
	} else {
		if appointment.Order.Status != models.OrderStatusPending {
			return NewValidationError("order", "order is already in progress and cannot be cancelled")
		}
		if appointment.Order.Handled {
			return NewValidationError("order", "order has already been handled and cannot be cancelled")
		}
	}

	if err := s.db.Model(&appointment).Update("state", models.AppointmentStateCancelled).Error; err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if appointment.Order != nil {
		if err := s.cancelOrder(appointment.Order); err != nil {
			return err
		}
	}

	data := models.NotificationData{"appointment_id": fmt.Sprint(appointment.ID)}
	s.notifications.Notify(ToCustomer(appointment.UserID), "appointment_cancelled",
		"Appointment cancelled",
		"Your appointment has been cancelled. A refund will be processed.",
		data)
	s.notifications.Notify(ToAllAdmins(), "appointment_cancelled",
		"Appointment cancelled by customer",
		fmt.Sprintf("Appointment %d on %s was cancelled and needs a refund.", appointment.ID, appointment.AppointmentDate),
		data)
	return nil
}

// AttachRefund records the refund proof for a cancelled appointment. A
// refund can be attached exactly once.
func (s *AppointmentService) AttachRefund(appointmentID uint, imageKey string) error {
	if imageKey == "" {
		return NewValidationError("refund_image", "refund image is required")
	}
	var appointment models.Appointment
	if err := s.db.First(&appointment, appointmentID).Error; err != nil {
		return &NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	return s.attachRefund(&appointment, imageKey)
}

// AttachRefundByOrder is the order-level entry to the same refund workflow.
func (s *AppointmentService) AttachRefundByOrder(orderID uint, imageKey string) error {
	if imageKey == "" {
		return NewValidationError("refund_image", "refund image is required")
	}
	var order models.Order
	if err := s.db.Preload("Appointment").First(&order, orderID).Error; err != nil {
		return &NotFoundError{Resource: "order", ID: orderID}
	}
	if err := s.attachRefund(&order.Appointment, imageKey); err != nil {
		return err
	}
	return s.db.Model(&order).Update("refund_image", imageKey).Error
}

func (s *AppointmentService) attachRefund(appointment *models.Appointment, imageKey string) error {
	if appointment.IsActive() {
		return NewValidationError("state", "refunds apply only to cancelled appointments")
	}
	if appointment.RefundImage != nil && *appointment.RefundImage != "" {
		return NewValidationError("refund_image", "refund has already been issued")
	}
	if err := s.db.Model(appointment).Update("refund_image", imageKey).Error; err != nil {
		return fmt.Errorf("failed to attach refund image: %w", err)
	}
	s.notifications.Notify(ToCustomer(appointment.UserID), "refund_issued",
		"Refund issued",
		"Your downpayment refund proof has been uploaded.",
		models.NotificationData{"appointment_id": fmt.Sprint(appointment.ID)})
	return nil
}

// PendingRefunds lists cancelled appointments still waiting for a refund
// image, for the admin refund view.
func (s *AppointmentService) PendingRefunds() ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.
		Where("state = ? AND (refund_image IS NULL OR refund_image = '')", models.AppointmentStateCancelled).
		Preload("User").
		Preload("Order").
		Order("updated_at DESC").
		Find(&appointments).Error
	return appointments, err
}

// Destroy hard-deletes an appointment and its order. Admin-only escape
// hatch; every other flow cancels instead of deleting.
func (s *AppointmentService) Destroy(appointmentID uint) error {
	var appointment models.Appointment
	if err := s.db.Preload("Order").First(&appointment, appointmentID).Error; err != nil {
		return &NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if appointment.Order != nil {
		if err := s.db.Unscoped().Delete(appointment.Order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
	}
	if err := s.db.Unscoped().Delete(&appointment).Error; err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// cancelOrder flips a linked order to Cancelled. Status changes always
// clear the handled flag.
func (s *AppointmentService) cancelOrder(order *models.Order) error {
	updates := map[string]interface{}{
		"status":  models.OrderStatusCancelled,
		"handled": false,
	}
	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	return nil
}

// appointmentMoment combines the appointment's date and time into a
// timestamp for Order.ScheduledAt, when both parse.
func (s *AppointmentService) appointmentMoment(appointment *models.Appointment) *time.Time {
	date := NormalizeDate(appointment.AppointmentDate)
	timeOfDay := NormalizeTimeHMS(appointment.AppointmentTime)
	if date == "" || timeOfDay == "" {
		return nil
	}
	moment, err := time.Parse("2006-01-02 15:04:05", date+" "+timeOfDay)
	if err != nil {
		return nil
	}
	return &moment
}

// queuePositionFor counts how many of the day's other live appointments
// fall at or before this one's time, giving the new order its initial
// queue number. The next full recalculation keeps it dense.
func (s *AppointmentService) queuePositionFor(appointment *models.Appointment) int {
	date := NormalizeDate(appointment.AppointmentDate)
	ownTime := NormalizeTimeHM(appointment.AppointmentTime)

	var appointments []models.Appointment
	err := s.db.
		Where("state = ? OR state IS NULL", models.AppointmentStateActive).
		Where("id <> ?", appointment.ID).
		Preload("Order").
		Find(&appointments).Error
	if err != nil {
		return 1
	}

	position := 1
	for i := range appointments {
		other := &appointments[i]
		if NormalizeDate(other.AppointmentDate) != date {
			continue
		}
		if other.Order != nil && other.Order.IsTerminal() {
			continue
		}
		if other.Order == nil && other.Status != models.AppointmentStatusAccepted {
			continue
		}
		if NormalizeTimeHM(other.AppointmentTime) <= ownTime {
			position++
		}
	}
	return position
}
