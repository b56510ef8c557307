// Package projects exposes project and membership operations over HTTP.
package projects

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/hwportal/internal/api/middleware"
	"github.com/good-yellow-bee/hwportal/internal/directory"
	"github.com/good-yellow-bee/hwportal/internal/metrics"
	"github.com/good-yellow-bee/hwportal/internal/models"
)

// Response helpers (same pattern as hardware)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeForbidden        = "FORBIDDEN"
	errCodeConflict         = "CONFLICT"
	errCodeInternalError    = "INTERNAL_ERROR"
	errCodeStoreUnavailable = "STORE_UNAVAILABLE"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// Response types
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}

// Request types
type CreateRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Handler handles project endpoints.
type Handler struct {
	directory *directory.Directory
}

// NewHandler creates a new projects handler.
func NewHandler(d *directory.Directory) *Handler {
	return &Handler{directory: d}
}

// List returns the projects the authenticated user belongs to.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	projects, err := h.directory.ListForUser(ctx, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	resp := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectToResponse(p)
	}
	jsonOK(w, resp)
}

// Create creates a new project with the caller as its first member.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateProjectID(req.ID); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	if err := ValidateName(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	if err := ValidateDescription(req.Description); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	project, err := h.directory.Create(ctx, req.ID, req.Name, req.Description, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	metrics.ProjectsCreatedTotal.Inc()
	log.Printf("project created: %s by user %s", project.ID, userID)
	jsonCreated(w, projectToResponse(project))
}

// GetByID returns a project's detail. Members only.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(ctx)

	project, err := h.directory.Open(ctx, id, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	jsonOK(w, projectToResponse(project))
}

// Members returns the project roster. Members only.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(ctx)

	members, err := h.directory.Members(ctx, id, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	resp := make([]*MemberResponse, len(members))
	for i, m := range members {
		resp[i] = memberToResponse(m)
	}
	jsonOK(w, resp)
}

// Join adds the authenticated user to the project. Joining twice is a no-op.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(ctx)

	project, err := h.directory.Join(ctx, id, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	metrics.ProjectMembershipChanges.WithLabelValues("join").Inc()
	log.Printf("project join: user %s -> %s", userID, id)
	jsonOK(w, projectToResponse(project))
}

// Leave removes the authenticated user from the project. Leaving a
// project the user never joined is a no-op.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(ctx)

	project, err := h.directory.Leave(ctx, id, userID)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	metrics.ProjectMembershipChanges.WithLabelValues("leave").Inc()
	log.Printf("project leave: user %s <- %s", userID, id)
	jsonOK(w, projectToResponse(project))
}

// writeDirectoryError maps directory failures to HTTP responses.
func writeDirectoryError(w http.ResponseWriter, err error) {
	var (
		notFound   *directory.NotFoundError
		duplicate  *directory.DuplicateIDError
		forbidden  *directory.ForbiddenError
		validation *directory.ValidationError
		storeErr   *directory.StoreError
	)

	switch {
	case errors.As(err, &validation):
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, errCodeNotFound, err.Error())
	case errors.As(err, &duplicate):
		jsonError(w, http.StatusConflict, errCodeConflict, err.Error())
	case errors.As(err, &forbidden):
		jsonError(w, http.StatusForbidden, errCodeForbidden, "access denied")
	case errors.As(err, &storeErr):
		log.Printf("project store error: %v", err)
		jsonError(w, http.StatusServiceUnavailable, errCodeStoreUnavailable, "project store unavailable, try again")
	default:
		log.Printf("projects handler error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
	}
}

func projectToResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func memberToResponse(m *models.ProjectMember) *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
