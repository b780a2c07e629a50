package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, fake *fakeServer) (*Controller, *Session) {
	t.Helper()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	api := New(srv.URL)
	session, err := NewSession(api, storage)
	require.NoError(t, err)
	return NewController(session, api), session
}

func TestControllerStartsAtHome(t *testing.T) {
	vc, _ := newTestController(t, newFakeServer())
	assert.Equal(t, ViewHome, vc.Current())
}

func TestControllerStaticTransitions(t *testing.T) {
	vc, _ := newTestController(t, newFakeServer())

	vc.ShowLogin()
	assert.Equal(t, ViewLogin, vc.Current())

	vc.ShowRegister()
	assert.Equal(t, ViewRegister, vc.Current())

	vc.ShowHome()
	assert.Equal(t, ViewHome, vc.Current())
}

func TestControllerShowProducts(t *testing.T) {
	fake := newFakeServer()
	fake.products = []models.Product{
		{ID: 1, Name: "Wireless Headphones", Price: 79.99},
		{ID: 2, Name: "Smart Watch", Price: 199.99},
	}
	vc, _ := newTestController(t, fake)

	require.NoError(t, vc.ShowProducts(context.Background()))

	assert.Equal(t, ViewProducts, vc.Current())
	assert.Len(t, vc.Products(), 2)
}

func TestControllerShowProductDetail(t *testing.T) {
	fake := newFakeServer()
	fake.products = []models.Product{{ID: 2, Name: "Smart Watch", Price: 199.99}}
	vc, _ := newTestController(t, fake)

	require.NoError(t, vc.ShowProductDetail(context.Background(), 2))

	assert.Equal(t, ViewProductDetail, vc.Current())
	require.NotNil(t, vc.Product())
	assert.Equal(t, "Smart Watch", vc.Product().Name)
}

func TestControllerProductDetailFailureKeepsView(t *testing.T) {
	vc, _ := newTestController(t, newFakeServer())

	err := vc.ShowProductDetail(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, ViewHome, vc.Current())
	assert.Nil(t, vc.Product())
}

func TestControllerOrdersRedirectsToLogin(t *testing.T) {
	vc, _ := newTestController(t, newFakeServer())

	err := vc.ShowOrders(context.Background())

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, ViewLogin, vc.Current())
}

func TestControllerShowOrdersGroupsRows(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fake := newFakeServer()
	fake.orderRows = []models.OrderRow{
		{ID: 42, TotalAmount: 359.97, Status: "paid", CreatedAt: created, ProductID: 1, Quantity: 2, Price: 79.99, ProductName: "Wireless Headphones"},
		{ID: 42, TotalAmount: 359.97, Status: "paid", CreatedAt: created, ProductID: 2, Quantity: 1, Price: 199.99, ProductName: "Smart Watch"},
		{ID: 41, TotalAmount: 79.99, Status: "pending", CreatedAt: created, ProductID: 1, Quantity: 1, Price: 79.99, ProductName: "Wireless Headphones"},
	}
	vc, session := newTestController(t, fake)
	require.NoError(t, session.Login(context.Background(), "alice@example.com", "pw"))

	require.NoError(t, vc.ShowOrders(context.Background()))

	assert.Equal(t, ViewOrders, vc.Current())
	orders := vc.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(42), orders[0].ID)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, int64(41), orders[1].ID)
	assert.Len(t, orders[1].Items, 1)
}

func TestControllerCheckoutLandsOnOrders(t *testing.T) {
	fake := newFakeServer()
	vc, session := newTestController(t, fake)
	require.NoError(t, session.Login(context.Background(), "alice@example.com", "pw"))
	require.NoError(t, session.Cart().Add(testHeadphones, 1))

	result, err := vc.Checkout(context.Background(), "credit-card", testCardDetails)

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Equal(t, ViewOrders, vc.Current())
}

func TestControllerCheckoutWithoutLoginRedirects(t *testing.T) {
	vc, session := newTestController(t, newFakeServer())
	require.NoError(t, session.Cart().Add(testHeadphones, 1))

	_, err := vc.Checkout(context.Background(), "credit-card", testCardDetails)

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, ViewLogin, vc.Current())
}

func TestGroupOrderRowsEmpty(t *testing.T) {
	assert.Empty(t, GroupOrderRows(nil))
}
