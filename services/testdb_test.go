package services

import (
	"testing"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.Appointment{},
		&models.Order{},
		&models.Feedback{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestCustomer(t *testing.T, db *gorm.DB, auth0ID string) *models.User {
	t.Helper()

	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Test Customer",
		Email:   auth0ID + "@example.com",
		Role:    "customer",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	return &user
}

type appointmentOpts struct {
	userID uint
	date   string
	time   string
	status string
	state  *string
}

func createTestAppointment(t *testing.T, db *gorm.DB, opts appointmentOpts) *models.Appointment {
	t.Helper()

	if opts.status == "" {
		opts.status = models.AppointmentStatusPending
	}
	if opts.state == nil {
		state := models.AppointmentStateActive
		opts.state = &state
	}
	appointment := models.Appointment{
		UserID:          opts.userID,
		ServiceType:     "Barong",
		Sizes:           models.SizeBreakdown{"M": 1},
		TotalQuantity:   1,
		AppointmentDate: opts.date,
		AppointmentTime: opts.time,
		Status:          opts.status,
		State:           opts.state,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("Failed to create test appointment: %v", err)
	}
	return &appointment
}

func createTestOrder(t *testing.T, db *gorm.DB, appointmentID uint, status string) *models.Order {
	t.Helper()

	order := models.Order{
		AppointmentID: appointmentID,
		Status:        status,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return &order
}

func fixedNow(value string) func() time.Time {
	now, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return now }
}
