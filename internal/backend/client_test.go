package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fooddash/internal/domain/model"
	infraRepo "fooddash/internal/infra/repository"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// helper
// =====================

type fakeBackend struct {
	mux   *http.ServeMux
	hits  map[string]*int64
	srv   *httptest.Server
	calls int64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux(), hits: map[string]*int64{}}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fb.calls, 1)
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) handle(pattern string, status int, body string) {
	var n int64
	fb.hits[pattern] = &n
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&n, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (fb *fakeBackend) count(pattern string) int64 {
	return atomic.LoadInt64(fb.hits[pattern])
}

func newTestClient(t *testing.T, fb *fakeBackend) *Client {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewClient(fb.srv.URL+"/", nil, infraRepo.NewQueryCacheMemoryRepository(), time.Minute, log)
}

// =====================
// tests
// =====================

func TestClient_CustomerLogin(t *testing.T) {
	fb := newFakeBackend(t)
	var gotBody model.Credentials
	fb.mux.HandleFunc("POST /customers/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"id":"c1","firstName":"Ada","email":"ada@example.com","paymentInfo":[]}`)
	})
	c := newTestClient(t, fb)

	out, err := c.CustomerLogin(context.Background(), model.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "Ada", out.FirstName)
	assert.Equal(t, "ada@example.com", gotBody.Email)
}

func TestClient_APIError(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle("POST /dashers/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	c := newTestClient(t, fb)

	_, err := c.DasherLogin(context.Background(), model.Credentials{Email: "x@y.z", Password: "bad"})
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Invalid credentials", ae.Message)
}

func TestClient_MalformedResponse(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle("POST /restaurants/login", http.StatusOK, `{"name":"no id here"}`)
	fb.handle("GET /orders/unassigned", http.StatusOK, `{"not":"a list"}`)
	c := newTestClient(t, fb)

	_, err := c.RestaurantLogin(context.Background(), model.Credentials{Email: "r@y.z", Password: "pw"})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = c.UnassignedOrders(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_QueryIsCachedUntilMutation(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle("GET /dishes/restaurant/r1", http.StatusOK, `[{"id":"d1","name":"Soup","price":4.5,"restaurantId":"r1"}]`)
	fb.handle("POST /dishes", http.StatusOK, `{"id":"d2","name":"Tea","price":2,"restaurantId":"r1"}`)
	c := newTestClient(t, fb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dishes, err := c.DishesByRestaurant(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, dishes, 1)
		assert.Equal(t, "4.5", dishes[0].Price.String())
	}
	assert.Equal(t, int64(1), fb.count("GET /dishes/restaurant/r1"))

	_, err := c.CreateDish(ctx, model.CreateDish{Name: "Tea", RestaurantID: "r1"})
	require.NoError(t, err)

	_, err = c.DishesByRestaurant(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fb.count("GET /dishes/restaurant/r1"))
}

func TestClient_DasherActiveOrder_NotFoundIsNil(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle("GET /orders/dasher/d1/active", http.StatusNotFound, `{"error":"no active order"}`)
	c := newTestClient(t, fb)

	o, err := c.DasherActiveOrder(context.Background(), "d1")
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestClient_ContextCancelled(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle("GET /restaurants", http.StatusOK, `[]`)
	c := newTestClient(t, fb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListRestaurants(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
