package services

import (
	"strings"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
)

// DeriveDateTime computes the single next-relevant appointment moment for an
// order from its status and its linked appointment. Both the daily queue and
// the appointment-count views consume this value.
//
// The order's Appointment must be loaded. Returns (nil, nil) when the order
// has no displayable next appointment. Emitted values are normalized to
// "YYYY-MM-DD" and "HH:MM:SS".
func DeriveDateTime(order *models.Order) (*string, *string) {
	appt := &order.Appointment

	// An unaccepted appointment never contributes a next-appointment,
	// whatever the order status says.
	if strings.EqualFold(strings.TrimSpace(appt.Status), models.AppointmentStatusPending) {
		return nil, nil
	}

	switch order.Status {
	case models.OrderStatusReadyToCheck:
		if date, timeOfDay, ok := normalizedPair(order.CheckAppointmentDate, order.CheckAppointmentTime); ok {
			return date, timeOfDay
		}
		return appointmentDateTime(appt)
	case models.OrderStatusCompleted:
		if date, timeOfDay, ok := normalizedPair(order.PickupAppointmentDate, order.PickupAppointmentTime); ok {
			return date, timeOfDay
		}
		return appointmentDateTime(appt)
	case models.OrderStatusPending:
		return appointmentDateTime(appt)
	case models.OrderStatusFinished, models.OrderStatusCancelled:
		return nil, nil
	}

	// Unknown status: fall back to the appointment's own slot so a future
	// status value degrades to something displayable instead of vanishing
	// from the queue.
	return appointmentDateTime(appt)
}

func normalizedPair(date, timeOfDay *string) (*string, *string, bool) {
	if date == nil || timeOfDay == nil {
		return nil, nil, false
	}
	d := NormalizeDate(*date)
	t := NormalizeTimeHMS(*timeOfDay)
	if d == "" || t == "" {
		return nil, nil, false
	}
	return &d, &t, true
}

func appointmentDateTime(appt *models.Appointment) (*string, *string) {
	d := NormalizeDate(appt.AppointmentDate)
	t := NormalizeTimeHMS(appt.AppointmentTime)
	var datePtr, timePtr *string
	if d != "" {
		datePtr = &d
	}
	if t != "" {
		timePtr = &t
	}
	return datePtr, timePtr
}
