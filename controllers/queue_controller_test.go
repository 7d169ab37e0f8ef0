package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/stretchr/testify/assert"
)

func setupQueueRouter(user *models.User) *gin.Engine {
	router := setupTestRouter()
	auth := mockAuthMiddleware(user.Auth0ID, user.Role)
	router.GET("/queue/today", auth, GetTodayQueue)
	router.POST("/queue/recalculate", auth, RecalculateQueue)
	return router
}

func freezeQueueClock(t *testing.T, value string) {
	t.Helper()

	moment, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("Failed to parse frozen clock value: %v", err)
	}
	original := queueNow
	queueNow = func() time.Time { return moment }
	t.Cleanup(func() { queueNow = original })
}

func TestGetTodayQueue(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{})
	freezeQueueClock(t, "2030-06-10 09:30:00")

	customer := createUser(t, db, "auth0|customer", "customer")
	createOrderRecord(t, db, customer.ID, "2030-06-10", "09:00:00", models.OrderStatusPending)
	createOrderRecord(t, db, customer.ID, "2030-06-10", "10:00:00", models.OrderStatusPending)

	router := setupQueueRouter(customer)
	req := httptest.NewRequest(http.MethodGet, "/queue/today", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2030-06-10", data["date"])

	entries := data["entries"].([]interface{})
	assert.Len(t, entries, 2)

	current := data["current_customer"].(map[string]interface{})
	assert.Equal(t, float64(1), current["queue_number"])
	next := data["next_customer"].(map[string]interface{})
	assert.Equal(t, float64(2), next["queue_number"])
}

func TestGetTodayQueue_Empty(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{})
	freezeQueueClock(t, "2030-06-10 09:30:00")

	customer := createUser(t, db, "auth0|customer", "customer")
	router := setupQueueRouter(customer)

	req := httptest.NewRequest(http.MethodGet, "/queue/today", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["entries"])
	assert.Nil(t, data["current_customer"])
	assert.Nil(t, data["next_customer"])
}

func TestRecalculateQueue_AdminOnly(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createUser(t, db, "auth0|customer", "customer")
	admin := createUser(t, db, "auth0|admin", "admin")
	createOrderRecord(t, db, customer.ID, "2030-06-10", "09:00:00", models.OrderStatusPending)

	t.Run("Customer forbidden", func(t *testing.T) {
		router := setupQueueRouter(customer)
		req := httptest.NewRequest(http.MethodPost, "/queue/recalculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin recalculates", func(t *testing.T) {
		router := setupQueueRouter(admin)
		req := httptest.NewRequest(http.MethodPost, "/queue/recalculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var order models.Order
		assert.NoError(t, db.First(&order).Error)
		assert.Equal(t, 1, order.QueueNumber)
	})
}
