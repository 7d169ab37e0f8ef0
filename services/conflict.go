package services

import (
	"log"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// ConflictService answers whether a (date, time) slot is already claimed by
// an active appointment or by a non-terminal order's check/pickup schedule.
type ConflictService struct {
	db *gorm.DB
}

// NewConflictService builds a ConflictService on the given database.
func NewConflictService(db *gorm.DB) *ConflictService {
	return &ConflictService{db: db}
}

// HasConflict reports whether the slot at date+time is occupied. The
// exclusion ids support edit flows: a record never conflicts with itself.
//
// Lookup failures are logged and treated as "no conflict" so a transient
// query error cannot block legitimate bookings; the worst case is an
// advisory double-booking, which the queue tolerates.
func (s *ConflictService) HasConflict(date, timeOfDay string, excludeOrderID, excludeAppointmentID uint) bool {
	wantDate := NormalizeDate(date)
	wantTime := NormalizeTimeHM(timeOfDay)
	if wantDate == "" || wantTime == "" {
		return false
	}

	if s.appointmentConflict(wantDate, wantTime, excludeOrderID, excludeAppointmentID) {
		return true
	}
	return s.orderConflict(wantDate, wantTime, excludeOrderID)
}

// appointmentConflict checks the appointment side: an active (or legacy
// null-state) appointment holds its slot until it is cancelled or its order
// reaches a terminal status.
func (s *ConflictService) appointmentConflict(wantDate, wantTime string, excludeOrderID, excludeAppointmentID uint) bool {
	var appointments []models.Appointment
	err := s.db.
		Where("state = ? OR state IS NULL", models.AppointmentStateActive).
		Preload("Order").
		Find(&appointments).Error
	if err != nil {
		log.Printf("conflict check: appointment lookup failed, treating slot as free: %v", err)
		return false
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
		if NormalizeDate(appt.AppointmentDate) == wantDate && NormalizeTimeHM(appt.AppointmentTime) == wantTime {
			return true
		}
	}
	return false
}

// orderConflict checks the order side: non-terminal orders claim their
// admin-set check and pickup slots.
func (s *ConflictService) orderConflict(wantDate, wantTime string, excludeOrderID uint) bool {
	var orders []models.Order
	err := s.db.
		Where("status NOT IN ?", models.OrderTerminalStatuses).
		Find(&orders).Error
	if err != nil {
		log.Printf("conflict check: order lookup failed, treating slot as free: %v", err)
		return false
	}

	for i := range orders {
		order := &orders[i]
		if order.ID == excludeOrderID {
			continue
		}
		if slotMatches(order.CheckAppointmentDate, order.CheckAppointmentTime, wantDate, wantTime) {
			return true
		}
		if slotMatches(order.PickupAppointmentDate, order.PickupAppointmentTime, wantDate, wantTime) {
			return true
		}
	}
	return false
}

func slotMatches(date, timeOfDay *string, wantDate, wantTime string) bool {
	if date == nil || timeOfDay == nil {
		return false
	}
	return NormalizeDate(*date) == wantDate && NormalizeTimeHM(*timeOfDay) == wantTime
}
