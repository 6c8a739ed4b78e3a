package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbcshop/backend/internal/auth"
	"github.com/cbcshop/backend/internal/httpx"
)

//
// ---------- STUBS & FAKES ----------
//

// memRepo implements Repository in memory and enforces orderId uniqueness the
// way the real store's unique index does.
type memRepo struct {
	mu     sync.Mutex
	orders []Order
	byID   map[string]int
}

func newMemRepo() *memRepo { return &memRepo{byID: make(map[string]int)} }

func (r *memRepo) Insert(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.OrderID]; ok {
		return ErrConflict
	}
	r.byID[o.OrderID] = len(r.orders)
	r.orders = append(r.orders, *o)
	return nil
}

func (r *memRepo) GetByOrderID(_ context.Context, orderID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r.orders[i]
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, scope Scope) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if scope.All || o.Email == scope.Email {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, orderID string, upd UpdateOrderRequest) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil {
		r.orders[i].Status = *upd.Status
	}
	if upd.Notes != nil {
		r.orders[i].Notes = *upd.Notes
	}
	cp := r.orders[i]
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, orderID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r.orders[i]
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	delete(r.byID, orderID)
	for id, j := range r.byID {
		if j > i {
			r.byID[id] = j - 1
		}
	}
	return &cp, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// conflictRepo makes the first n Insert calls fail with ErrConflict, modelling
// a lost race on the unique index.
type conflictRepo struct {
	Repository
	mu        sync.Mutex
	conflicts int
}

func (r *conflictRepo) Insert(ctx context.Context, o *Order) error {
	r.mu.Lock()
	if r.conflicts > 0 {
		r.conflicts--
		r.mu.Unlock()
		return ErrConflict
	}
	r.mu.Unlock()
	return r.Repository.Insert(ctx, o)
}

// salesStub records IncSalesCount calls.
type salesStub struct {
	mu     sync.Mutex
	counts map[string]int
}

func newSalesStub() *salesStub { return &salesStub{counts: make(map[string]int)} }

func (s *salesStub) IncSalesCount(_ context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[productID] += delta
	return nil
}

func (s *salesStub) count(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[productID]
}

type testEnv struct {
	router        *gin.Engine
	repo          *memRepo
	catalog       *catalogStub
	alloc         *allocStub
	sales         *salesStub
	customerToken string
	otherToken    string
	adminToken    string
}

func newTestEnv(t *testing.T, repo Repository) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		repo:    newMemRepo(),
		catalog: newCatalogStub(availableProduct("P1", 10, 15)),
		alloc:   &allocStub{},
		sales:   newSalesStub(),
	}
	if repo == nil {
		repo = env.repo
	}

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	var err error
	env.customerToken, err = jwtSvc.Generate("jane@example.com", "Jane", "Doe", "customer", "")
	require.NoError(t, err)
	env.otherToken, err = jwtSvc.Generate("eve@example.com", "Eve", "Smith", "customer", "")
	require.NoError(t, err)
	env.adminToken, err = jwtSvc.Generate("root@example.com", "Root", "Admin", "admin", "")
	require.NoError(t, err)

	h := NewHandler(repo, NewAssembler(env.catalog, env.alloc), env.alloc, NewEffects(env.sales))

	r := gin.New()
	r.Use(httpx.Authenticate(jwtSvc))
	orders := r.Group("/api/orders")
	orders.POST("", httpx.RequireUser(), h.Create)
	orders.GET("", httpx.RequireUser(), h.List)
	orders.GET("/:orderId", httpx.RequireUser(), h.Get)
	orders.PUT("/:orderId", httpx.RequireAdmin(), h.Update)
	orders.DELETE("/:orderId", httpx.RequireAdmin(), h.Delete)
	env.router = r
	return env
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type orderResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

//
// ---------- TESTS ----------
//

func TestCreateOrder_HappyPath(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/orders", env.customerToken,
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":3}]}`)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	var resp orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^CBC\d{5,}$`, resp.Order.OrderID)
	assert.Equal(t, StatusPending, resp.Order.Status)
	assert.InDelta(t, 30.0, resp.Order.Total, 1e-9)
	assert.InDelta(t, 45.0, resp.Order.LabeledTotal, 1e-9)
	assert.Equal(t, "jane@example.com", resp.Order.Email)

	assert.Equal(t, 1, env.repo.count())
	assert.Eventually(t, func() bool { return env.sales.count("P1") == 3 },
		time.Second, 10*time.Millisecond, "post-commit effect must bump salesCount by the ordered quantity")
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/orders", "",
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1}]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, env.repo.count())
}

func TestCreateOrder_ValidationError(t *testing.T) {
	env := newTestEnv(t, nil)

	for name, body := range map[string]string{
		"missing address": `{"phone":"123","products":[{"productId":"P1","qty":1}]}`,
		"missing phone":   `{"address":"A","products":[{"productId":"P1","qty":1}]}`,
		"empty products":  `{"address":"A","phone":"123","products":[]}`,
		"zero qty":        `{"address":"A","phone":"123","products":[{"productId":"P1","qty":0}]}`,
		"malformed json":  `{"address":`,
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/orders", env.customerToken, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body=%s", w.Body.String())
		})
	}
	assert.Equal(t, 0, env.repo.count(), "rejected requests must not persist anything")
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/orders", env.customerToken,
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1},{"productId":"GHOST","qty":1}]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "GHOST")
	assert.Equal(t, 0, env.repo.count(), "no partial order may be created")
	assert.Equal(t, 0, env.sales.count("P1"))
}

func TestCreateOrder_UnavailableProduct(t *testing.T) {
	env := newTestEnv(t, nil)
	hidden := availableProduct("P2", 5, 0)
	hidden.IsAvailable = false
	env.catalog.set(hidden)

	w := env.do(http.MethodPost, "/api/orders", env.customerToken,
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1},{"productId":"P2","qty":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "P2")
	assert.Equal(t, 0, env.repo.count())
}

func TestCreateOrder_ConflictRetried(t *testing.T) {
	inner := newMemRepo()
	repo := &conflictRepo{Repository: inner, conflicts: 1}
	env := newTestEnv(t, repo)

	w := env.do(http.MethodPost, "/api/orders", env.customerToken,
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1}]}`)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	var resp orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CBC00002", resp.Order.OrderID, "a fresh id is allocated after the collision")
	assert.Equal(t, 1, inner.count())
}

func TestCreateOrder_ConflictExhausted(t *testing.T) {
	inner := newMemRepo()
	repo := &conflictRepo{Repository: inner, conflicts: maxAllocAttempts + 1}
	env := newTestEnv(t, repo)

	w := env.do(http.MethodPost, "/api/orders", env.customerToken,
		`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1}]}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, inner.count())
}

func TestCreateOrder_ConcurrentPlacementsGetDistinctIDs(t *testing.T) {
	env := newTestEnv(t, nil)

	const n = 20
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := env.do(http.MethodPost, "/api/orders", env.customerToken,
				`{"address":"A","phone":"123","products":[{"productId":"P1","qty":1}]}`)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		require.Equal(t, http.StatusCreated, code, "request %d", i)
	}
	assert.Equal(t, n, env.repo.count(), "every placement produced its own order")
	assert.Eventually(t, func() bool { return env.sales.count("P1") == n },
		2*time.Second, 10*time.Millisecond, "each concurrent order increments salesCount exactly once")
}

func seedOrder(t *testing.T, env *testEnv, email string, createdAt time.Time) Order {
	t.Helper()
	id, err := env.alloc.Next(context.Background())
	require.NoError(t, err)
	o := Order{
		OrderID:        id,
		Email:          email,
		Name:           "Seed",
		Address:        "A",
		Phone:          "123",
		Status:         StatusPending,
		ShippingMethod: ShippingStandard,
		PaymentMethod:  PaymentCreditCard,
		Products: []LineItem{{
			ProductInfo: ProductSnapshot{ProductID: "P1", Name: "Product P1", Price: 10},
			Quantity:    1,
		}},
		Total:     10,
		CreatedAt: createdAt,
	}
	require.NoError(t, env.repo.Insert(context.Background(), &o))
	return o
}

func TestListOrders_Scoping(t *testing.T) {
	env := newTestEnv(t, nil)
	base := time.Now().UTC()
	seedOrder(t, env, "jane@example.com", base)
	seedOrder(t, env, "eve@example.com", base.Add(time.Second))
	seedOrder(t, env, "jane@example.com", base.Add(2*time.Second))

	w := env.do(http.MethodGet, "/api/orders", env.customerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 2, "customers only see their own orders")
	for _, o := range mine {
		assert.Equal(t, "jane@example.com", o.Email)
	}
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt), "newest first")

	w = env.do(http.MethodGet, "/api/orders", env.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3, "admins see every order")
}

func TestGetOrder_OwnershipCheck(t *testing.T) {
	env := newTestEnv(t, nil)
	o := seedOrder(t, env, "jane@example.com", time.Now().UTC())
	path := fmt.Sprintf("/api/orders/%s", o.OrderID)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, path, env.customerToken, "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, path, env.adminToken, "").Code)
	// another customer cannot tell a foreign order from a missing one
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, env.otherToken, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/orders/CBC99999", env.customerToken, "").Code)
}

func TestUpdateOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	o := seedOrder(t, env, "jane@example.com", time.Now().UTC())
	path := fmt.Sprintf("/api/orders/%s", o.OrderID)

	w := env.do(http.MethodPut, path, env.adminToken, `{"status":"shipped","notes":"left at door"}`)
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
	var resp orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusShipped, resp.Order.Status)
	assert.Equal(t, "left at door", resp.Order.Notes)
	// write-once fields untouched
	assert.InDelta(t, o.Total, resp.Order.Total, 1e-9)
	assert.Equal(t, o.OrderID, resp.Order.OrderID)

	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPut, path, env.adminToken, `{"status":"teleported"}`).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPut, "/api/orders/CBC99999", env.adminToken, `{"status":"shipped"}`).Code)
	assert.Equal(t, http.StatusForbidden,
		env.do(http.MethodPut, path, env.customerToken, `{"status":"shipped"}`).Code)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	o := seedOrder(t, env, "jane@example.com", time.Now().UTC())
	path := fmt.Sprintf("/api/orders/%s", o.OrderID)

	w := env.do(http.MethodDelete, path, env.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, o.OrderID, resp.Order.OrderID, "the deleted order is returned")

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, env.adminToken, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, path, env.customerToken, "").Code)
	assert.Equal(t, 0, env.repo.count())
}
