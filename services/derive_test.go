package services

import (
	"testing"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func orderWith(apptStatus, orderStatus string) *models.Order {
	return &models.Order{
		Status: orderStatus,
		Appointment: models.Appointment{
			Status:          apptStatus,
			AppointmentDate: "2024-06-01",
			AppointmentTime: "09:00:00",
		},
	}
}

func TestDeriveDateTimePendingAppointmentWins(t *testing.T) {
	// An unaccepted appointment never yields a next-appointment, whatever
	// the order status claims — including odd casing and whitespace.
	for _, apptStatus := range []string{"pending", "Pending", "PENDING", "  pending  "} {
		for _, orderStatus := range []string{
			models.OrderStatusPending,
			models.OrderStatusReadyToCheck,
			models.OrderStatusCompleted,
			models.OrderStatusFinished,
			models.OrderStatusCancelled,
			"Something Else",
		} {
			order := orderWith(apptStatus, orderStatus)
			order.CheckAppointmentDate = strPtr("2024-06-02")
			order.CheckAppointmentTime = strPtr("10:00")

			date, timeOfDay := DeriveDateTime(order)
			assert.Nil(t, date, "status=%q order=%q", apptStatus, orderStatus)
			assert.Nil(t, timeOfDay, "status=%q order=%q", apptStatus, orderStatus)
		}
	}
}

func TestDeriveDateTimeReadyToCheck(t *testing.T) {
	order := orderWith(models.AppointmentStatusAccepted, models.OrderStatusReadyToCheck)
	order.CheckAppointmentDate = strPtr("2024-06-05")
	order.CheckAppointmentTime = strPtr("10:30")

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-05", *date)
	assert.Equal(t, "10:30:00", *timeOfDay, "Missing seconds are padded")
}

func TestDeriveDateTimeReadyToCheckFallsBack(t *testing.T) {
	// Without a complete check slot the appointment's own slot is used.
	order := orderWith(models.AppointmentStatusAccepted, models.OrderStatusReadyToCheck)
	order.CheckAppointmentDate = strPtr("2024-06-05") // time missing

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-01", *date)
	assert.Equal(t, "09:00:00", *timeOfDay)
}

func TestDeriveDateTimeCompleted(t *testing.T) {
	order := orderWith(models.AppointmentStatusAccepted, models.OrderStatusCompleted)
	order.PickupAppointmentDate = strPtr("2024-06-10T00:00:00")
	order.PickupAppointmentTime = strPtr("14:00")

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-10", *date, "Embedded time-of-day is stripped from the date")
	assert.Equal(t, "14:00:00", *timeOfDay)
}

func TestDeriveDateTimeCompletedFallsBack(t *testing.T) {
	order := orderWith(models.AppointmentStatusAccepted, models.OrderStatusCompleted)

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-01", *date)
	assert.Equal(t, "09:00:00", *timeOfDay)
}

func TestDeriveDateTimePendingOrder(t *testing.T) {
	order := orderWith(models.AppointmentStatusAccepted, models.OrderStatusPending)

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-01", *date)
	assert.Equal(t, "09:00:00", *timeOfDay)
}

func TestDeriveDateTimeTerminalStatuses(t *testing.T) {
	for _, status := range models.OrderTerminalStatuses {
		order := orderWith(models.AppointmentStatusAccepted, status)
		date, timeOfDay := DeriveDateTime(order)
		assert.Nil(t, date, "status=%q", status)
		assert.Nil(t, timeOfDay, "status=%q", status)
	}
}

func TestDeriveDateTimeUnknownStatusFallsBack(t *testing.T) {
	// Unknown statuses degrade to the appointment's own slot so a future
	// pipeline stage still shows up somewhere.
	order := orderWith(models.AppointmentStatusAccepted, "Quality Review")

	date, timeOfDay := DeriveDateTime(order)
	assert.Equal(t, "2024-06-01", *date)
	assert.Equal(t, "09:00:00", *timeOfDay)
}

func TestDeriveDateTimeNeverPanics(t *testing.T) {
	// Totality: empty fields everywhere still yields a clean (nil, nil).
	order := &models.Order{Status: models.OrderStatusPending}

	date, timeOfDay := DeriveDateTime(order)
	assert.Nil(t, date)
	assert.Nil(t, timeOfDay)
}
