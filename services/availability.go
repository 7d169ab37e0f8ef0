package services

import (
	"log"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// AvailabilityService computes the free booking slots for a date by removing
// every claimed time from the fixed slot catalog.
type AvailabilityService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAvailabilityService builds an AvailabilityService on the given database.
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db, now: time.Now}
}

// SetNowFunc overrides the wall clock (primarily for testing).
func (s *AvailabilityService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// GetAvailableSlots returns the catalog slots still free on the given date,
// in catalog (ascending) order. The exclusion ids let edit flows keep a
// record's own slot visible as available.
//
// Rejects missing, unparseable, and past dates with a ValidationError.
func (s *AvailabilityService) GetAvailableSlots(date string, excludeOrderID, excludeAppointmentID uint) ([]string, error) {
	if date == "" {
		return nil, NewValidationError("date", "date is required")
	}
	requested, ok := ParseBookingDate(date)
	if !ok {
		return nil, NewValidationError("date", "date could not be parsed")
	}

	// Date-only comparison: a booking for later today is still valid.
	today := s.now().Format("2006-01-02")
	if requested.Format("2006-01-02") < today {
		return nil, NewValidationError("date", "date must not be in the past")
	}

	booked := s.bookedTimes(requested.Format("2006-01-02"), excludeOrderID, excludeAppointmentID)

	available := make([]string, 0, 24)
	for _, slot := range GenerateSlots() {
		if !booked[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// bookedTimes collects the deduplicated "HH:MM" times claimed on a date
// across all five schedule sources: the appointment slot itself, the order's
// scheduled/completed timestamps, and the admin-set check and pickup slots.
func (s *AvailabilityService) bookedTimes(date string, excludeOrderID, excludeAppointmentID uint) map[string]bool {
	booked := make(map[string]bool)

	var appointments []models.Appointment
	err := s.db.
		Where("state = ? OR state IS NULL", models.AppointmentStateActive).
		Preload("Order").
		Find(&appointments).Error
	if err != nil {
		log.Printf("availability: appointment lookup failed: %v", err)
	}
	for i := range appointments {
		appt := &appointments[i]
		if appt.ID == excludeAppointmentID {
			continue
		}
		if appt.Order != nil {
			if excludeOrderID != 0 && appt.Order.ID == excludeOrderID {
				continue
			}
			if appt.Order.IsTerminal() {
				continue
			}
		}
		if NormalizeDate(appt.AppointmentDate) == date {
			if t := NormalizeTimeHM(appt.AppointmentTime); t != "" {
				booked[t] = true
			}
		}
	}

	var orders []models.Order
	err = s.db.
		Where("status NOT IN ?", models.OrderTerminalStatuses).
		Find(&orders).Error
	if err != nil {
		log.Printf("availability: order lookup failed: %v", err)
	}
	for i := range orders {
		order := &orders[i]
		if order.ID == excludeOrderID {
			continue
		}
		if order.ScheduledAt != nil && order.ScheduledAt.Format("2006-01-02") == date {
			booked[order.ScheduledAt.Format("15:04")] = true
		}
		if order.CompletedAt != nil && order.CompletedAt.Format("2006-01-02") == date {
			booked[order.CompletedAt.Format("15:04")] = true
		}
		if order.CheckAppointmentDate != nil && order.CheckAppointmentTime != nil &&
			NormalizeDate(*order.CheckAppointmentDate) == date {
			if t := NormalizeTimeHM(*order.CheckAppointmentTime); t != "" {
				booked[t] = true
			}
		}
		if order.PickupAppointmentDate != nil && order.PickupAppointmentTime != nil &&
			NormalizeDate(*order.PickupAppointmentDate) == date {
			if t := NormalizeTimeHM(*order.PickupAppointmentTime); t != "" {
				booked[t] = true
			}
		}
	}

	return booked
}
