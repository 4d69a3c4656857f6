package apikeys

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

const testKey = "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"

var testTokens = auth.NewTokens(config.JWTConfig{Secret: "test-secret-0123456789", TTL: time.Hour})

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	st := store.New(db)
	handler := NewHandler(st)

	api := r.Group("/api")
	api.Use(CombinedAuthMiddleware(st, testTokens, testLogger()))
	handler.RegisterRoutes(api)
	api.GET("/whoami", func(c *gin.Context) {
		p, _ := auth.GetPrincipal(c)
		c.JSON(http.StatusOK, p)
	})
	return r
}

func getAuthHeader(user models.User) string {
	token, _ := testTokens.Generate(&auth.Principal{UserID: user.ID, Name: user.Name})
	return "Bearer " + token
}

func createKey(t *testing.T, db *gorm.DB, user models.User, key string) models.APIKey {
	apiKey := models.APIKey{
		UserID:    user.ID,
		KeyHash:   hashAPIKey(key),
		KeyPrefix: key[:KeyPrefixLength],
	}
	if err := db.Create(&apiKey).Error; err != nil {
		t.Fatalf("Failed to create API key: %v", err)
	}
	return apiKey
}

func TestCreateAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "planner")

	jsonBody, _ := json.Marshal(CreateAPIKeyRequest{Description: "Test API Key"})
	req, _ := http.NewRequest("POST", "/api/api-keys", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response CreateAPIKeyResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if len(response.Key) != KeyLength*2 {
		t.Errorf("Expected key length %d, got %d", KeyLength*2, len(response.Key))
	}
	if response.KeyPrefix != response.Key[:KeyPrefixLength] {
		t.Error("Key prefix should match the start of the key")
	}
	if response.Description != "Test API Key" {
		t.Errorf("Expected description 'Test API Key', got '%s'", response.Description)
	}

	var stored models.APIKey
	db.First(&stored, response.ID)
	if stored.KeyHash == response.Key || stored.KeyHash != hashAPIKey(response.Key) {
		t.Error("Expected only the key hash to be stored")
	}
}

func TestCreateAPIKeyWithoutDescription(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "planner")

	req, _ := http.NewRequest("POST", "/api/api-keys", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListAPIKeysOnlyShowsOwnKeys(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")

	createKey(t, db, user1, "key1abcd"+testKey[8:])
	createKey(t, db, user1, "key1efgh"+testKey[8:])
	createKey(t, db, user2, "key2abcd"+testKey[8:])

	req, _ := http.NewRequest("GET", "/api/api-keys", nil)
	req.Header.Set("Authorization", getAuthHeader(user1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response []APIKeyResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	if len(response) != 2 {
		t.Fatalf("Expected 2 API keys, got %d", len(response))
	}
	for _, k := range response {
		if k.KeyPrefix[:4] != "key1" {
			t.Errorf("Should only see own API keys, got %s", k.KeyPrefix)
		}
	}
}

func TestDeleteAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "planner")
	apiKey := createKey(t, db, user, testKey)

	req, _ := http.NewRequest("DELETE", "/api/api-keys/"+strconv.Itoa(int(apiKey.ID)), nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.APIKey{}).Where("id = ?", apiKey.ID).Count(&count)
	if count != 0 {
		t.Error("API key should be deleted")
	}
}

func TestDeleteAPIKeyNotOwned(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")
	apiKey := createKey(t, db, user2, testKey)

	req, _ := http.NewRequest("DELETE", "/api/api-keys/"+strconv.Itoa(int(apiKey.ID)), nil)
	req.Header.Set("Authorization", getAuthHeader(user1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestCombinedAuthMiddlewareAcceptsAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "planner")
	apiKey := createKey(t, db, user, testKey)

	req, _ := http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var principal auth.Principal
	json.Unmarshal(resp.Body.Bytes(), &principal)
	if principal.UserID != user.ID {
		t.Errorf("Expected principal for user %d, got %d", user.ID, principal.UserID)
	}

	var updated models.APIKey
	db.First(&updated, apiKey.ID)
	if updated.LastUsedAt == nil {
		t.Error("Expected last_used_at to be recorded")
	}
}

func TestCombinedAuthMiddlewareAcceptsJWT(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "planner")

	req, _ := http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCombinedAuthMiddlewareRejects(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	inactive := createTestUser(t, db, "gone")
	createKey(t, db, inactive, testKey)
	db.Model(&models.User{}).Where("id = ?", inactive.ID).Update("active", false)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"unknown key", "Bearer invalidkey"},
		{"bad jwt", "Bearer a.b.c"},
		{"inactive owner", "Bearer " + testKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/api/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.Code)
			}
		})
	}
}
