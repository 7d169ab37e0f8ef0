package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/middleware"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := authHeader[7:] // strip "Bearer "

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing.
// It sets up the context exactly as the real EnsureValidToken middleware does.
func mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, auth0ID, role string) *models.User {
	t.Helper()

	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Test User",
		Email:   auth0ID + "@example.com",
		Role:    role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return response
}

func assertErrorCode(t *testing.T, response map[string]interface{}, code string) {
	t.Helper()

	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, code, errorData["code"])
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	tests := []struct {
		name           string
		auth0ID        string
		email          string
		userName       string
		role           string
		accessToken    string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Create customer user successfully",
			auth0ID:        "auth0|123456",
			email:          "maria@example.com",
			userName:       "Maria Santos",
			role:           "customer",
			accessToken:    "token-123456",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Create admin user successfully",
			auth0ID:        "auth0|admin789",
			email:          "admin@example.com",
			userName:       "Shop Admin",
			role:           "admin",
			accessToken:    "token-admin789",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Default to customer when role claim is empty",
			auth0ID:        "auth0|norole",
			email:          "norole@example.com",
			userName:       "No Role User",
			role:           "",
			accessToken:    "token-norole",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail with missing email",
			auth0ID:        "auth0|noemail",
			email:          "",
			userName:       "No Email User",
			role:           "customer",
			accessToken:    "token-noemail",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_EMAIL",
		},
		{
			name:           "Fail with missing name",
			auth0ID:        "auth0|noname",
			email:          "noname@example.com",
			userName:       "",
			role:           "customer",
			accessToken:    "token-noname",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db.Exec("DELETE FROM users")

			userInfoMap := map[string]*services.Auth0UserInfo{
				tt.accessToken: {
					Sub:   tt.auth0ID,
					Email: tt.email,
					Name:  tt.userName,
				},
			}
			mockServer := setupMockAuth0Server(userInfoMap)
			defer mockServer.Close()

			originalConfig := config.GetConfig()
			defer config.SetConfig(originalConfig)
			config.SetConfig(&config.Config{
				Auth0Domain: mockServer.URL,
			})

			router := setupTestRouter()
			router.POST("/users", mockAuthMiddleware(tt.auth0ID, tt.role), CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+tt.accessToken)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			response := parseResponse(t, w)
			if tt.expectedStatus == http.StatusCreated {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, tt.email, data["email"])
				assert.Equal(t, tt.userName, data["name"])
				assert.Equal(t, tt.auth0ID, data["auth0_id"])
				if tt.role != "" {
					assert.Equal(t, tt.role, data["role"])
				} else {
					assert.Equal(t, "customer", data["role"])
				}
			} else {
				assertErrorCode(t, response, tt.expectedCode)
			}
		})
	}
}

func TestCreateUser_DuplicateAuth0ID(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createUser(t, db, "auth0|duplicate", "customer")

	accessToken := "token-duplicate"
	mockServer := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		accessToken: {
			Sub:   "auth0|duplicate",
			Email: "second@example.com",
			Name:  "Second User",
		},
	})
	defer mockServer.Close()

	originalConfig := config.GetConfig()
	defer config.SetConfig(originalConfig)
	config.SetConfig(&config.Config{Auth0Domain: mockServer.URL})

	router := setupTestRouter()
	router.POST("/users", mockAuthMiddleware("auth0|duplicate", "customer"), CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assertErrorCode(t, parseResponse(t, w), "USER_EXISTS")
}

func TestCreateUser_MissingAuthorizationHeader(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/users", mockAuthMiddleware("auth0|x", "customer"), CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assertErrorCode(t, parseResponse(t, w), "MISSING_TOKEN")
}

func TestGetCurrentUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createUser(t, db, "auth0|me", "customer")

	router := setupTestRouter()
	router.GET("/users/me", mockAuthMiddleware(user.Auth0ID, user.Role), GetCurrentUser)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, user.Email, data["email"])
}

func TestGetCurrentUser_NoProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/users/me", mockAuthMiddleware("auth0|ghost", "customer"), GetCurrentUser)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, parseResponse(t, w), "USER_NOT_FOUND")
}

func TestUpdateCurrentUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createUser(t, db, "auth0|update", "customer")

	router := setupTestRouter()
	router.PATCH("/users/me", mockAuthMiddleware(user.Auth0ID, user.Role), UpdateCurrentUser)

	body, _ := json.Marshal(map[string]string{
		"name":  "Maria Rosario",
		"phone": "+63 912 345 6789",
	})
	req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	assert.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Maria Rosario", reloaded.Name)
	assert.Equal(t, "+63 912 345 6789", reloaded.Phone)
}
