package hardware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/hwportal/internal/api/middleware"
	"github.com/good-yellow-bee/hwportal/internal/ledger"
	"github.com/good-yellow-bee/hwportal/internal/models"
)

// Mock repositories
type mockPoolRepository struct {
	pools         map[string]*models.HardwarePool
	checkoutError error
	checkinError  error
	getError      error
	listError     error
}

func newMockPoolRepository(pools ...*models.HardwarePool) *mockPoolRepository {
	m := &mockPoolRepository{pools: make(map[string]*models.HardwarePool)}
	for _, p := range pools {
		m.pools[p.Name] = p
	}
	return m
}

func (m *mockPoolRepository) Create(ctx context.Context, pool *models.HardwarePool) error {
	m.pools[pool.Name] = pool
	return nil
}

func (m *mockPoolRepository) GetByName(ctx context.Context, name string) (*models.HardwarePool, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	p, ok := m.pools[name]
	if !ok {
		return nil, nil
	}
	snapshot := *p
	return &snapshot, nil
}

func (m *mockPoolRepository) List(ctx context.Context) ([]*models.HardwarePool, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]*models.HardwarePool, 0, len(m.pools))
	for _, p := range m.pools {
		snapshot := *p
		out = append(out, &snapshot)
	}
	return out, nil
}

func (m *mockPoolRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.pools)), nil
}

func (m *mockPoolRepository) CheckoutUnits(ctx context.Context, name, userID string, quantity int) (bool, error) {
	if m.checkoutError != nil {
		return false, m.checkoutError
	}
	p, ok := m.pools[name]
	if !ok {
		return false, nil
	}
	if p.CheckedOut+quantity > p.Capacity {
		return false, nil
	}
	p.CheckedOut += quantity
	return true, nil
}

func (m *mockPoolRepository) CheckinUnits(ctx context.Context, name, userID string, quantity int) (bool, error) {
	if m.checkinError != nil {
		return false, m.checkinError
	}
	p, ok := m.pools[name]
	if !ok {
		return false, nil
	}
	if p.CheckedOut-quantity < 0 {
		return false, nil
	}
	p.CheckedOut -= quantity
	return true, nil
}

type mockEventRepository struct {
	events    []*models.CheckoutEvent
	listError error
}

func (m *mockEventRepository) ListByPool(ctx context.Context, poolName string, limit int) ([]*models.CheckoutEvent, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]*models.CheckoutEvent, 0)
	for _, e := range m.events {
		if e.PoolName == poolName && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.CheckoutEvent, error) {
	return nil, nil
}

func testPool(name string, capacity, checkedOut int) *models.HardwarePool {
	now := time.Now()
	return &models.HardwarePool{
		Name:       name,
		Capacity:   capacity,
		CheckedOut: checkedOut,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newTestHandler(pools ...*models.HardwarePool) (*Handler, *mockPoolRepository, *mockEventRepository) {
	poolRepo := newMockPoolRepository(pools...)
	eventRepo := &mockEventRepository{}
	return NewHandler(ledger.New(poolRepo), eventRepo), poolRepo, eventRepo
}

func requestWithPool(method, target, body, poolName string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := middleware.WithUser(req.Context(), "user-1", "alice", false)
	if poolName != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", poolName)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestList_ReturnsPools(t *testing.T) {
	handler, _, _ := newTestHandler(
		testPool("HWSET1", 250, 20),
		testPool("HWSET2", 300, 0),
	)

	req := requestWithPool("GET", "/api/v1/hardware", "", "")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data []*PoolResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("pools count = %d, want 2", len(resp.Data))
	}
	for _, p := range resp.Data {
		if p.Available != p.Capacity-p.CheckedOut {
			t.Errorf("pool %s: available = %d, want %d", p.Name, p.Available, p.Capacity-p.CheckedOut)
		}
	}
}

func TestGetByName_Found(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 20))

	req := requestWithPool("GET", "/api/v1/hardware/HWSET1", "", "HWSET1")
	rec := httptest.NewRecorder()

	handler.GetByName(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data *PoolResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Available != 230 {
		t.Errorf("available = %d, want 230", resp.Data.Available)
	}
}

func TestGetByName_NotFound(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := requestWithPool("GET", "/api/v1/hardware/HWSET9", "", "HWSET9")
	rec := httptest.NewRecorder()

	handler.GetByName(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if body := decodeError(t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestCheckOut_Success(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 20))

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkout", `{"quantity": 50}`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data *PoolResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.CheckedOut != 70 {
		t.Errorf("checked_out = %d, want 70", resp.Data.CheckedOut)
	}
	if resp.Data.Available != 180 {
		t.Errorf("available = %d, want 180", resp.Data.Available)
	}
}

func TestCheckOut_InsufficientCapacity(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 70))

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkout", `{"quantity": 300}`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}

	body := decodeError(t, rec)
	if body.Code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", body.Code)
	}
	details, ok := body.Details.(map[string]any)
	if !ok {
		t.Fatalf("details missing: %v", body.Details)
	}
	if details["requested"] != float64(300) {
		t.Errorf("requested = %v, want 300", details["requested"])
	}
	if details["available"] != float64(180) {
		t.Errorf("available = %v, want 180", details["available"])
	}
}

func TestCheckOut_InvalidQuantity(t *testing.T) {
	handler, repo, _ := newTestHandler(testPool("HWSET1", 250, 20))

	for _, body := range []string{`{"quantity": 0}`, `{"quantity": -5}`} {
		req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkout", body, "HWSET1")
		rec := httptest.NewRecorder()

		handler.CheckOut(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}

	if repo.pools["HWSET1"].CheckedOut != 20 {
		t.Errorf("pool mutated by rejected request")
	}
}

func TestCheckOut_MalformedBody(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 20))

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkout", `{un`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCheckOut_PoolNotFound(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := requestWithPool("POST", "/api/v1/hardware/HWSET9/checkout", `{"quantity": 5}`, "HWSET9")
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCheckOut_StoreUnavailable(t *testing.T) {
	handler, repo, _ := newTestHandler(testPool("HWSET1", 250, 20))
	repo.checkoutError = errors.New("database is locked")

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkout", `{"quantity": 5}`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if body := decodeError(t, rec); body.Code != "STORE_UNAVAILABLE" {
		t.Errorf("code = %q, want STORE_UNAVAILABLE", body.Code)
	}
}

func TestCheckIn_Success(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 70))

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkin", `{"quantity": 70}`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckIn(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data *PoolResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.CheckedOut != 0 {
		t.Errorf("checked_out = %d, want 0", resp.Data.CheckedOut)
	}
}

func TestCheckIn_OverReturn(t *testing.T) {
	handler, repo, _ := newTestHandler(testPool("HWSET1", 250, 70))

	req := requestWithPool("POST", "/api/v1/hardware/HWSET1/checkin", `{"quantity": 1000}`, "HWSET1")
	rec := httptest.NewRecorder()

	handler.CheckIn(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}

	body := decodeError(t, rec)
	details, ok := body.Details.(map[string]any)
	if !ok {
		t.Fatalf("details missing: %v", body.Details)
	}
	if details["requested"] != float64(1000) {
		t.Errorf("requested = %v, want 1000", details["requested"])
	}
	if details["checked_out"] != float64(70) {
		t.Errorf("checked_out = %v, want 70", details["checked_out"])
	}

	if repo.pools["HWSET1"].CheckedOut != 70 {
		t.Errorf("pool mutated by rejected over-return")
	}
}

func TestActivity_ReturnsEvents(t *testing.T) {
	handler, _, eventRepo := newTestHandler(testPool("HWSET1", 250, 20))
	now := time.Now()
	eventRepo.events = []*models.CheckoutEvent{
		{ID: "ev-2", PoolName: "HWSET1", UserID: "user-1", Action: models.ActionCheckin, Quantity: 5, CreatedAt: now},
		{ID: "ev-1", PoolName: "HWSET1", UserID: "user-1", Action: models.ActionCheckout, Quantity: 25, CreatedAt: now.Add(-time.Minute)},
		{ID: "ev-0", PoolName: "HWSET2", UserID: "user-2", Action: models.ActionCheckout, Quantity: 1, CreatedAt: now},
	}

	req := requestWithPool("GET", "/api/v1/hardware/HWSET1/activity", "", "HWSET1")
	rec := httptest.NewRecorder()

	handler.Activity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data []*EventResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("events count = %d, want 2", len(resp.Data))
	}
}

func TestActivity_BadLimit(t *testing.T) {
	handler, _, _ := newTestHandler(testPool("HWSET1", 250, 20))

	for _, limit := range []string{"0", "501", "abc"} {
		req := requestWithPool("GET", "/api/v1/hardware/HWSET1/activity?limit="+limit, "", "HWSET1")
		rec := httptest.NewRecorder()

		handler.Activity(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %s: status = %d, want %d", limit, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestActivity_PoolNotFound(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := requestWithPool("GET", "/api/v1/hardware/HWSET9/activity", "", "HWSET9")
	rec := httptest.NewRecorder()

	handler.Activity(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestValidatePoolName(t *testing.T) {
	valid := []string{"HWSET1", "hwset-2", "a", "pool_3"}
	for _, name := range valid {
		if err := ValidatePoolName(name); err != nil {
			t.Errorf("ValidatePoolName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "-leading", "_leading", "has space", strings.Repeat("x", 65)}
	for _, name := range invalid {
		if err := ValidatePoolName(name); err == nil {
			t.Errorf("ValidatePoolName(%q) = nil, want error", name)
		}
	}
}
