package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", time.Second, zap.NewNop())
}

func TestGetMenuItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu-items", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"Margherita","base_price":4000,"allows_sizes":true}]`))
	})

	items, err := c.GetMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4000), items[0].BasePrice)
	assert.True(t, items[0].AllowsSizes)
}

func TestSaveOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var order checkout.Order
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		order.ID = 41
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(order)
	})

	saved, err := c.SaveOrder(context.Background(), checkout.Order{
		CustomerName: "Dana",
		DeliveryMode: delivery.ModePickup,
		Total:        1500,
		Status:       checkout.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), saved.ID)
	assert.Equal(t, int64(1500), saved.Total)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"missing"}`, http.StatusNotFound)
	})

	_, err := c.GetOrderByID(context.Background(), 5)
	assert.ErrorIs(t, err, checkout.ErrOrderNotFound)
}

func TestUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetSauces(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
}

func TestListOrdersAndStatus(t *testing.T) {
	var gotStatus string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders":
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"id":1,"status":"pending"},{"id":2,"status":"ready"}]`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/orders/2/status":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotStatus = body["status"]
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	orders, err := c.ListOrders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, checkout.StatusReady, orders[1].Status)

	require.NoError(t, c.UpdateOrderStatus(context.Background(), 2, checkout.StatusDelivered))
	assert.Equal(t, "delivered", gotStatus)
}
