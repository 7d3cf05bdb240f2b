package controllers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-api/controllers"
	"shop-api/models"
	"shop-api/repositories/memstore"
	"shop-api/routes"
	"shop-api/sentiment"
	"shop-api/services"
	"shop-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *memstore.Store
	tokens *utils.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model, err := sentiment.Load("../ml/sentiment.json")
	require.NoError(t, err)

	store := memstore.New()
	tokens := utils.NewJWTManager("test-secret", time.Hour)

	router := gin.New()
	routes.SetupRoutes(router, routes.Controllers{
		Auth:    controllers.NewAuthController(services.NewAuthService(store, tokens)),
		Product: controllers.NewProductController(services.NewProductService(store, nil)),
		Comment: controllers.NewCommentController(services.NewCommentService(store, store, model)),
		Cart:    controllers.NewCartController(services.NewCartService(store, store)),
		Order:   controllers.NewOrderController(services.NewOrderService(store, store, nil)),
	}, tokens)

	return &testServer{router: router, store: store, tokens: tokens}
}

// user creates an account and returns its bearer token.
func (s *testServer) user(t *testing.T, username string, staff bool) (int, string) {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", IsStaff: staff}
	require.NoError(t, s.store.CreateUser(context.Background(), u))
	token, err := s.tokens.GenerateToken(u.ID, u.Username, staff)
	require.NoError(t, err)
	return u.ID, token
}

func (s *testServer) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	ctx := context.Background()
	cat := &models.Category{Name: "cat-" + name}
	require.NoError(t, s.store.CreateCategory(ctx, cat))
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: 5, CategoryID: cat.ID}
	require.NoError(t, s.store.CreateProduct(ctx, p))
	return *p
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    models.MetaData `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestAddToCartResponses(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.user(t, "alice", false)
	_, bob := s.user(t, "bob", false)
	latte := s.product(t, "Latte", "4.50")

	w := s.do(http.MethodPost, "/carts", alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart models.Cart
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cart))

	tests := []struct {
		name   string
		token  string
		body   string
		status int
		error  string
	}{
		{
			name:   "unknown cart",
			token:  alice,
			body:   `{"cart": 9999, "product": 1, "quantity": 1}`,
			status: http.StatusNotFound,
			error:  "Cart not found",
		},
		{
			name:   "unknown product",
			token:  alice,
			body:   `{"cart": ` + itoa(cart.ID) + `, "product": 9999, "quantity": 1}`,
			status: http.StatusNotFound,
			error:  "Product not found",
		},
		{
			name:   "foreign cart",
			token:  bob,
			body:   `{"cart": ` + itoa(cart.ID) + `, "product": ` + itoa(latte.ID) + `, "quantity": 1}`,
			status: http.StatusForbidden,
			error:  "You do not have permission to modify this cart",
		},
		{
			name:   "zero quantity",
			token:  alice,
			body:   `{"cart": ` + itoa(cart.ID) + `, "product": ` + itoa(latte.ID) + `, "quantity": 0}`,
			status: http.StatusBadRequest,
			error:  "Quantity must be greater than zero",
		},
		{
			name:   "fractional quantity",
			token:  alice,
			body:   `{"cart": ` + itoa(cart.ID) + `, "product": ` + itoa(latte.ID) + `, "quantity": 1.5}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "anonymous",
			body:   `{"cart": 1, "product": 1, "quantity": 1}`,
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/add-to-cart", tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			env := decode(t, w)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			if tt.error != "" {
				assert.Equal(t, tt.error, env.Error)
			}
		})
	}

	body := `{"cart": ` + itoa(cart.ID) + `, "product": ` + itoa(latte.ID) + `, "quantity": 2}`
	w = s.do(http.MethodPost, "/add-to-cart", alice, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body = `{"cart": ` + itoa(cart.ID) + `, "product": ` + itoa(latte.ID) + `, "quantity": 4}`
	w = s.do(http.MethodPost, "/add-to-cart", alice, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/cart-items", alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.CartItem
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, "Latte", items[0].Product.Name)
}

func TestOrdersAreScopedByPrincipal(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.user(t, "alice", false)
	_, bob := s.user(t, "bob", false)
	_, admin := s.user(t, "admin", true)
	latte := s.product(t, "Latte", "4.50")

	w := s.do(http.MethodPost, "/orders", alice, `{"items": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, s.store.CountOrders())

	body := `{"items": [{"product_id": ` + itoa(latte.ID) + `, "quantity": 3}]}`
	w = s.do(http.MethodPost, "/orders", alice, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("13.50").Equal(order.TotalPrice))

	w = s.do(http.MethodPost, "/orders", bob, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/orders", alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Meta.TotalItems)

	w = s.do(http.MethodGet, "/orders", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode(t, w).Meta.TotalItems)

	w = s.do(http.MethodGet, "/orders/"+itoa(order.ID), bob, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/orders/"+itoa(order.ID), admin, `{"status": "Shipped"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, "/orders/"+itoa(order.ID), alice, `{"status": "Pending"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/orders?status=Shipped", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Meta.TotalItems)
}

func TestCommentsCarrySentiment(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.user(t, "alice", false)
	latte := s.product(t, "Latte", "4.50")

	w := s.do(http.MethodPost, "/comments", alice,
		`{"product": `+itoa(latte.ID)+`, "text": "great product", "rating": 5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/comments", alice, `{"product": `+itoa(latte.ID)+`, "text": "", "rating": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/comments?product="+itoa(latte.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.CommentView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "positive", views[0].Sentiment)
}

func TestCatalogWritesRequireStaff(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.user(t, "alice", false)
	_, admin := s.user(t, "admin", true)

	w := s.do(http.MethodPost, "/categories", alice, `{"name": "Tea"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/categories", admin, `{"name": "Tea"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.Category
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cat))

	w = s.do(http.MethodPost, "/products", admin,
		`{"name": "Sencha", "price": "3.20", "stock": 4, "category": `+itoa(cat.ID)+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/products", admin,
		`{"name": "Matcha", "price": -1, "stock": 4, "category": `+itoa(cat.ID)+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Meta.TotalItems)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/register", "",
		`{"username": "carol", "email": "carol@example.com", "password": "hunter22", "is_staff": true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user models.User
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
	assert.False(t, user.IsStaff)

	w = s.do(http.MethodPost, "/auth/register", "", `{"username": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", `{"username": "carol", "password": "hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &login))
	assert.False(t, login.IsStaff)

	w = s.do(http.MethodGet, "/auth/me", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/auth/check-email", "", `{"email": "carol@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists": true}`, string(decode(t, w).Data))
}
