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

// RoomHandler handles HTTP requests for chatroom creation.
type RoomHandler struct {
	svc    *service.RoomService
	logger *slog.Logger
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(svc *service.RoomService, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		svc:    svc,
		logger: logger,
	}
}

// CreateChat handles POST /createchat. The requester comes from the
// auth middleware; the body carries invitee usernames.
func (h *RoomHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	if ident == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	room, err := h.svc.CreateRoom(r.Context(), ident.ID, req.Users)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("chatroom_created",
		"requester_id", ident.ID,
		"member_count", len(room.Members),
		"invited", len(req.Users),
	)

	writeJSON(w, http.StatusOK, dto.CreateChatResponse{
		Success:     "chat created",
		ChatAddress: room.ID,
		MemberCount: len(room.Members),
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *RoomHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTooManyUsers):
		h.writeError(w, http.StatusBadRequest, "TOO_MANY_USERS", "Too many users for chatroom capacity")
	case errors.Is(err, service.ErrUnknownInvitee):
		h.writeError(w, http.StatusBadRequest, "UNKNOWN_INVITEE", "Invited username does not exist")
	case errors.Is(err, service.ErrPopulationTooSmall):
		h.writeError(w, http.StatusBadRequest, "POPULATION_TOO_SMALL", "Not enough users to fill the chatroom")
	case errors.Is(err, service.ErrIDSpaceExhausted):
		h.logger.Error("room_id_space_exhausted", "error", err)
		h.writeError(w, http.StatusInternalServerError, "ID_SPACE_EXHAUSTED", "Failed to allocate a chatroom identifier")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *RoomHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
