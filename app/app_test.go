package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop-api/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:        "memory",
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		SentimentModelPath: "../ml/sentiment.json",
		AdminUsername:      "admin",
		AdminEmail:         "admin@example.com",
		AdminPassword:      "changeme",
	}
}

func TestNewWithMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := New(memoryConfig())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"changeme"}`))
	req.Header.Set("Content-Type", "application/json")
	a.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"is_staff":true`)
}

func TestNewFailsWithoutModel(t *testing.T) {
	cfg := memoryConfig()
	cfg.SentimentModelPath = "does-not-exist.json"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}
