package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *utils.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())

	whoami := func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": p.UserID, "is_staff": p.IsStaff})
	}
	r.GET("/private", AuthMiddleware(tokens), whoami)
	r.GET("/staff", AuthMiddleware(tokens), StaffMiddleware(), whoami)
	r.GET("/optional", OptionalAuth(tokens), whoami)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewJWTManager("test-secret", time.Hour)
	r := newTestRouter(tokens)

	userToken, err := tokens.GenerateToken(7, "alice", false)
	require.NoError(t, err)
	staffToken, err := tokens.GenerateToken(1, "admin", true)
	require.NoError(t, err)

	w := doGet(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = doGet(r, "/private", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/private", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true,"user_id":7,"is_staff":false}`, w.Body.String())

	w = doGet(r, "/staff", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, "/staff", staffToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/optional", "")
	assert.JSONEq(t, `{"authenticated":false,"user_id":0,"is_staff":false}`, w.Body.String())

	w = doGet(r, "/optional", staffToken)
	assert.JSONEq(t, `{"authenticated":true,"user_id":1,"is_staff":true}`, w.Body.String())
}

func TestAuthMiddlewareContextKeys(t *testing.T) {
	tokens := utils.NewJWTManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(7, "alice", true)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var keys map[string]any
	r.GET("/private", AuthMiddleware(tokens), func(c *gin.Context) {
		keys = c.Keys
		c.Status(http.StatusNoContent)
	})

	w := doGet(r, "/private", token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 7, keys["user_id"])
	assert.Contains(t, keys, principalKey)
	assert.Len(t, keys, 2)
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	r := newTestRouter(utils.NewJWTManager("s", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
