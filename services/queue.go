package services

import (
	"sort"
	"strings"
	"time"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"gorm.io/gorm"
)

// Orders with no derived time sort after every real slot within their day.
const endOfDayTime = "23:59:59"

// QueueService recomputes daily queue ordering from each order's derived
// date/time. Queue numbers are a display value recalculated on every read;
// concurrent admin updates may briefly disagree and the next recalculation
// settles them.
type QueueService struct {
	db *gorm.DB
}

// NewQueueService builds a QueueService on the given database.
func NewQueueService(db *gorm.DB) *QueueService {
	return &QueueService{db: db}
}

// QueueEntry is one order's position in a daily queue.
type QueueEntry struct {
	Order       models.Order `json:"order"`
	QueueNumber int          `json:"queue_number"`
	Date        *string      `json:"date"`
	Time        *string      `json:"time"`
}

// QueueView is the result of a today-queue read: the ordered entries plus
// pointers to the customer being served now and the one up next.
type QueueView struct {
	Date            string       `json:"date"`
	Entries         []QueueEntry `json:"entries"`
	CurrentCustomer *QueueEntry  `json:"current_customer"`
	NextCustomer    *QueueEntry  `json:"next_customer"`
}

type derivedOrder struct {
	order *models.Order
	date  string
	time  string // endOfDayTime when the order has no derived time
}

// RecalculateQueueNumbers reassigns dense per-day queue numbers to every
// non-terminal order, grouped by derived date and ordered by derived time.
// Orders with no derived date keep their stale number. Idempotent: numbers
// are only written when they change.
func (s *QueueService) RecalculateQueueNumbers() error {
	var orders []models.Order
	if err := s.db.
		Where("status NOT IN ?", models.OrderTerminalStatuses).
		Preload("Appointment").
		Find(&orders).Error; err != nil {
		return err
	}

	groups := make(map[string][]derivedOrder)
	for i := range orders {
		date, timeOfDay := DeriveDateTime(&orders[i])
		if date == nil {
			continue
		}
		d := derivedOrder{order: &orders[i], date: *date, time: endOfDayTime}
		if timeOfDay != nil {
			d.time = *timeOfDay
		}
		groups[d.date] = append(groups[d.date], d)
	}

	for _, group := range groups {
		sortDerived(group)
		for position, entry := range group {
			number := position + 1
			if entry.order.QueueNumber == number {
				continue
			}
			if err := s.db.Model(entry.order).Update("queue_number", number).Error; err != nil {
				return err
			}
			entry.order.QueueNumber = number
		}
	}
	return nil
}

// GetTodayQueue builds the queue for now's date: every non-terminal order
// with an accepted appointment whose derived date is today, ordered by
// derived time. The current customer is the latest entry whose slot time
// has already arrived (the one being served), or the first entry when the
// day has not started yet.
func (s *QueueService) GetTodayQueue(now time.Time) (*QueueView, error) {
	var orders []models.Order
	if err := s.db.
		Where("status NOT IN ?", models.OrderTerminalStatuses).
		Preload("Appointment").
		Preload("Appointment.User").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	group := make([]derivedOrder, 0, len(orders))
	for i := range orders {
		appt := &orders[i].Appointment
		if strings.EqualFold(strings.TrimSpace(appt.Status), models.AppointmentStatusPending) {
			continue
		}
		date, timeOfDay := DeriveDateTime(&orders[i])
		if date == nil || *date != today {
			continue
		}
		d := derivedOrder{order: &orders[i], date: *date, time: endOfDayTime}
		if timeOfDay != nil {
			d.time = *timeOfDay
		}
		group = append(group, d)
	}

	view := &QueueView{Date: today, Entries: []QueueEntry{}}
	if len(group) == 0 {
		return view, nil
	}

	sortDerived(group)
	for position, entry := range group {
		number := position + 1
		if entry.order.QueueNumber != number {
			if err := s.db.Model(entry.order).Update("queue_number", number).Error; err != nil {
				return nil, err
			}
			entry.order.QueueNumber = number
		}
		var datePtr, timePtr *string
		d, t := entry.date, entry.time
		datePtr = &d
		if entry.time != endOfDayTime {
			timePtr = &t
		}
		view.Entries = append(view.Entries, QueueEntry{
			Order:       *entry.order,
			QueueNumber: number,
			Date:        datePtr,
			Time:        timePtr,
		})
	}

	nowTime := now.Format("15:04:05")
	currentIndex := 0
	for i, entry := range group {
		if entry.time <= nowTime {
			currentIndex = i
		}
	}

	view.CurrentCustomer = &view.Entries[currentIndex]
	if currentIndex+1 < len(view.Entries) {
		view.NextCustomer = &view.Entries[currentIndex+1]
	}
	return view, nil
}

// sortDerived orders a date group by derived time, breaking ties by order id
// so renumbering is deterministic.
func sortDerived(group []derivedOrder) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].time != group[j].time {
			return group[i].time < group[j].time
		}
		return group[i].order.ID < group[j].order.ID
	})
}
