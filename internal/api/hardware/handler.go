// Package hardware exposes the inventory pools over HTTP.
package hardware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/hwportal/internal/api/middleware"
	"github.com/good-yellow-bee/hwportal/internal/ledger"
	"github.com/good-yellow-bee/hwportal/internal/models"
	"github.com/good-yellow-bee/hwportal/internal/storage"
)

// Response helpers (same pattern as projects)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeConflict         = "CONFLICT"
	errCodeInternalError    = "INTERNAL_ERROR"
	errCodeStoreUnavailable = "STORE_UNAVAILABLE"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	jsonErrorDetails(w, status, code, message, nil)
}

func jsonErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message, Details: details}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// Response types
type PoolResponse struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	CheckedOut int    `json:"checked_out"`
	Available  int    `json:"available"`
	UpdatedAt  string `json:"updated_at"`
}

type EventResponse struct {
	ID        string `json:"id"`
	PoolName  string `json:"pool_name"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

// Request types
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Handler handles hardware pool endpoints.
type Handler struct {
	ledger *ledger.Ledger
	events storage.EventRepository
}

// NewHandler creates a new hardware handler.
func NewHandler(l *ledger.Ledger, events storage.EventRepository) *Handler {
	return &Handler{ledger: l, events: events}
}

// List returns all hardware pools.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pools, err := h.ledger.List(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	resp := make([]*PoolResponse, len(pools))
	for i, p := range pools {
		resp[i] = poolToResponse(p)
	}
	jsonOK(w, resp)
}

// GetByName returns a single pool.
func (h *Handler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ValidatePoolName(name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	pool, err := h.ledger.Get(r.Context(), name)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	jsonOK(w, poolToResponse(pool))
}

// CheckOut removes units from a pool for the authenticated user.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ValidatePoolName(name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())
	pool, err := h.ledger.CheckOut(r.Context(), name, userID, req.Quantity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	log.Printf("checkout: user %s took %d from %s", userID, req.Quantity, name)
	jsonOK(w, poolToResponse(pool))
}

// CheckIn returns units to a pool for the authenticated user.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ValidatePoolName(name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())
	pool, err := h.ledger.CheckIn(r.Context(), name, userID, req.Quantity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	log.Printf("checkin: user %s returned %d to %s", userID, req.Quantity, name)
	jsonOK(w, poolToResponse(pool))
}

// Activity returns recent checkout and checkin events for a pool.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ValidatePoolName(name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > 500 {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	// Verify the pool exists before querying its history
	if _, err := h.ledger.Get(r.Context(), name); err != nil {
		writeLedgerError(w, err)
		return
	}

	events, err := h.events.ListByPool(r.Context(), name, limit)
	if err != nil {
		log.Printf("list activity error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*EventResponse, len(events))
	for i, e := range events {
		resp[i] = eventToResponse(e)
	}
	jsonOK(w, resp)
}

// writeLedgerError maps ledger failures to HTTP responses.
func writeLedgerError(w http.ResponseWriter, err error) {
	var (
		notFound     *ledger.NotFoundError
		invalidQty   *ledger.InvalidQuantityError
		insufficient *ledger.InsufficientCapacityError
		overReturn   *ledger.OverReturnError
		storeErr     *ledger.StoreError
	)

	switch {
	case errors.As(err, &invalidQty):
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, errCodeNotFound, err.Error())
	case errors.As(err, &insufficient):
		jsonErrorDetails(w, http.StatusConflict, errCodeConflict, err.Error(), map[string]int{
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &overReturn):
		jsonErrorDetails(w, http.StatusConflict, errCodeConflict, err.Error(), map[string]int{
			"requested":   overReturn.Requested,
			"checked_out": overReturn.CheckedOut,
		})
	case errors.As(err, &storeErr):
		log.Printf("inventory store error: %v", err)
		jsonError(w, http.StatusServiceUnavailable, errCodeStoreUnavailable, "inventory store unavailable, try again")
	default:
		log.Printf("hardware handler error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
	}
}

func poolToResponse(p *models.HardwarePool) *PoolResponse {
	return &PoolResponse{
		Name:       p.Name,
		Capacity:   p.Capacity,
		CheckedOut: p.CheckedOut,
		Available:  p.Available(),
		UpdatedAt:  p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func eventToResponse(e *models.CheckoutEvent) *EventResponse {
	return &EventResponse{
		ID:        e.ID,
		PoolName:  e.PoolName,
		UserID:    e.UserID,
		Action:    string(e.Action),
		Quantity:  e.Quantity,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
