package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roomgrid/roomgrid/internal/auth"
	"github.com/roomgrid/roomgrid/internal/handler/dto"
	"github.com/roomgrid/roomgrid/internal/service"
)

// UserHandler handles HTTP requests for username claims and lookups.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Claim handles POST /users. The identity comes from the auth
// middleware; the body carries the desired username.
func (h *UserHandler) Claim(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	if ident == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.ClaimUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.ClaimUsername(r.Context(), ident, req.Username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("username_claimed",
		"identity_id", user.IdentityID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.ClaimUserResponse{
		Status:   "success",
		UID:      user.IdentityID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// GetUsername handles POST /getusername.
func (h *UserHandler) GetUsername(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	if ident == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	username, err := h.svc.LookupUsername(r.Context(), ident.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsernameResponse{
		Status:   "success",
		Username: username,
	})
}

// Search handles GET /search_users?q=.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	if ident == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	results, err := h.svc.SearchUsers(r.Context(), ident.ID, r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if results == nil {
		results = []string{}
	}

	writeJSON(w, http.StatusOK, dto.SearchUsersResponse{Results: results})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyUsername):
		h.writeError(w, http.StatusBadRequest, "USERNAME_REQUIRED", "Username required")
	case errors.Is(err, service.ErrAlreadyClaimed):
		h.writeError(w, http.StatusBadRequest, "ALREADY_CLAIMED", "User already has a username")
	case errors.Is(err, service.ErrUsernameTaken):
		h.writeError(w, http.StatusBadRequest, "USERNAME_TAKEN", "Username already taken")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrEmptyQuery):
		h.writeError(w, http.StatusBadRequest, "MISSING_QUERY", "Missing search query")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
