package services

import (
	"log"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// Recipient is the tagged target of a notification: either one customer or
// the whole admin staff.
type Recipient struct {
	AllAdmins  bool
	CustomerID uint
}

// ToCustomer addresses a notification to a single customer.
func ToCustomer(id uint) Recipient {
	return Recipient{CustomerID: id}
}

// ToAllAdmins addresses a notification to the admin staff.
func ToAllAdmins() Recipient {
	return Recipient{AllAdmins: true}
}

// NotificationService persists notifications for clients to poll. Writes
// are fire-and-forget: a failed write is logged and never fails the state
// transition that triggered it.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService builds a NotificationService on the given database.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify writes one notification row. Errors are swallowed after logging.
func (s *NotificationService) Notify(recipient Recipient, kind, title, body string, data models.NotificationData) {
	notification := models.Notification{
		Type:  kind,
		Title: title,
		Body:  body,
		Data:  data,
	}
	if recipient.AllAdmins {
		notification.RecipientType = models.RecipientAllAdmins
	} else {
		notification.RecipientType = models.RecipientCustomer
		id := recipient.CustomerID
		notification.RecipientID = &id
	}

	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("notification write failed (type=%s): %v", kind, err)
	}
}

// ListForCustomer returns a customer's notifications, newest first.
func (s *NotificationService) ListForCustomer(customerID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("recipient_type = ? AND recipient_id = ?", models.RecipientCustomer, customerID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// ListForAdmins returns the admin broadcast feed, newest first.
func (s *NotificationService) ListForAdmins() ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("recipient_type = ?", models.RecipientAllAdmins).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead stamps a notification as read.
func (s *NotificationService) MarkRead(id uint) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", &now)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
