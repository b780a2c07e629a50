package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/service"
	"storefront/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	tokens *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := store.NewWithDB(sqlx.NewDb(db, "sqlmock"))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	authService := service.NewAuthService(st, tokens)
	catalogService := service.NewCatalogService(st, nil)
	orderService := service.NewOrderService(st, nil)
	paymentService := service.NewPaymentService(st, nil, 1.0)

	router := gin.New()
	NewHandler(authService, catalogService, orderService, paymentService).SetupRoutes(router)

	return &testEnv{router: router, mock: mock, tokens: tokens}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/ready", "", nil).Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "all fields are required", errorBody(t, w))
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT \* FROM users WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "created_at"}))

	w := env.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorBody(t, w))
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT \* FROM products ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "category", "stock", "created_at"}).
			AddRow(1, "Wireless Headphones", "desc", 99.99, "", "Electronics", 50, time.Now()))

	w := env.request(t, http.MethodGet, "/api/products", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wireless Headphones")
}

func TestGetProductInvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT \* FROM products WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "category", "stock", "created_at"}))

	w := env.request(t, http.MethodGet, "/api/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrdersRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/orders", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "access token required", errorBody(t, w))
}

func TestOrdersRejectInvalidToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/orders", "not-a-token", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "invalid token", errorBody(t, w))
}

func TestCreateOrderEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Generate(7, "alice")
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []interface{}{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "order items are required", errorBody(t, w))
}

func TestListOrdersAuthenticated(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Generate(7, "alice")
	require.NoError(t, err)

	env.mock.ExpectQuery(`SELECT o\.id, o\.total_amount`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount", "status", "created_at", "product_id", "quantity", "price", "product_name"}).
			AddRow(42, 220.0, "paid", time.Now(), 1, 2, 100.0, "Wireless Headphones"))

	w := env.request(t, http.MethodGet, "/api/orders", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wireless Headphones")
}

func TestPaymentProcessBadCard(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Generate(7, "alice")
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/payment/process", token, map[string]interface{}{
		"orderId":       42,
		"paymentMethod": "credit-card",
		"paymentDetails": map[string]string{
			"cardNumber": "123",
			"expiryDate": "12/30",
			"cvv":        "123",
			"cardName":   "Alice",
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
