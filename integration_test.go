package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestRouter builds the full application router against an in-memory
// database, the same way main() wires it up.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.Appointment{},
		&models.Order{},
		&models.Feedback{},
		&models.Notification{},
	))
	config.SetDB(db)

	cfg := &config.Config{
		GoEnv:             "test",
		Auth0Domain:       "rosarios-test.auth0.com",
		Auth0Audience:     "https://api.rosarios-tailoring.test",
		CORSOrigins:       []string{"http://localhost:3000"},
		BookingRatePerMin: 10,
	}
	config.SetConfig(cfg)

	return setupRouter(cfg)
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Rosario's Tailoring API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req, _ := http.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, method+" should not be allowed")
	}
}

// TestAPIV1Prefix tests that the endpoints require the /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	req, _ = http.NewRequest("GET", "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}

// TestPublicServiceTypesIntegration verifies the service catalog is readable
// without authentication.
func TestPublicServiceTypesIntegration(t *testing.T) {
	router := newTestRouter(t)

	db := config.GetDB()
	require.NoError(t, db.Create(&models.ServiceType{Name: "Barong", DownpaymentAmount: 500}).Error)

	req, _ := http.NewRequest("GET", "/api/v1/service-types", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["success"])

	serviceTypes, ok := response["data"].([]interface{})
	require.True(t, ok, "data should be a list")
	assert.Len(t, serviceTypes, 1)
}

// TestProtectedRoutesRequireToken verifies the JWT middleware guards the
// authenticated route group.
func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/appointments"},
		{"GET", "/api/v1/orders"},
		{"GET", "/api/v1/queue/today"},
		{"GET", "/api/v1/notifications"},
		{"GET", "/api/v1/users/me"},
	}

	for _, route := range protected {
		req, _ := http.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code,
			route.method+" "+route.path+" should require a token")

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err, "Error response should be valid JSON")
		assert.Equal(t, false, response["success"])
	}
}

// TestHealthEndpointHeaders tests that proper headers are set
func TestHealthEndpointHeaders(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}
