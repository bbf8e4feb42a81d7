package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/user"
)

// SessionStore is the persistence surface the handlers need.
type SessionStore interface {
	Create(ctx context.Context, requesterID, recipientID uuid.UUID, scheduledTime time.Time, note string) (*Session, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// RecipientResolver resolves a recipient email to a user.
type RecipientResolver interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Handler contains HTTP handlers for session scheduling
type Handler struct {
	store  SessionStore
	users  RecipientResolver
	logger *logging.Logger
}

func NewHandler(store SessionStore, users RecipientResolver, logger *logging.Logger) *Handler {
	return &Handler{store: store, users: users, logger: logger}
}

// ScheduleResponse represents the schedule-session response
type ScheduleResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// StatusResponse represents the status-update response
type StatusResponse struct {
	Message string `json:"message"`
}

// Schedule handles proposing a session
// @Summary      Schedule a session
// @Description  Propose a teaching session with another user
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ScheduleInput true "Session proposal"
// @Success      201 {object} ScheduleResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields or invalid time"
// @Failure      404 {object} httputil.ErrorResponse "Recipient not found"
// @Router       /sessions [post]
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	requester, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	var input ScheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Warn("invalid schedule request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if input.RecipientEmail == "" || input.ScheduledTime == "" {
		httputil.RespondErrorWithCode(w, "recipient_email and scheduled_time are required", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	scheduledTime, err := time.Parse(time.RFC3339, input.ScheduledTime)
	if err != nil {
		logger.Warn("invalid scheduled_time", "value", input.ScheduledTime)
		httputil.RespondErrorWithCode(w, "scheduled_time must be RFC 3339", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	recipient, err := h.users.GetByEmail(r.Context(), input.RecipientEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "recipient not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to resolve recipient", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to schedule session", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	session, err := h.store.Create(r.Context(), requester.ID, recipient.ID, scheduledTime, input.Message)
	if err != nil {
		logger.Error("failed to create session", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to schedule session", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("session scheduled", "session_id", session.ID, "requester", requester.Email)

	httputil.RespondJSON(w, ScheduleResponse{Message: "Session scheduled successfully", ID: session.ID}, http.StatusCreated)
}

// List handles fetching the caller's sessions
// @Summary      List sessions
// @Description  All sessions where the authenticated user is requester or recipient
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Session
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /sessions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	sessions, err := h.store.ListForUser(r.Context(), u.ID)
	if err != nil {
		logger.Error("list sessions failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list sessions", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, sessions, http.StatusOK)
}

// UpdateStatus handles accepting or rejecting a session
// @Summary      Update session status
// @Description  Set a session's status to pending, accepted, or rejected
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body StatusInput true "New status"
// @Success      200 {object} StatusResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid status value"
// @Failure      404 {object} httputil.ErrorResponse "Session not found"
// @Router       /sessions/{id} [patch]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid session id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	var input StatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Warn("invalid status request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if !ValidStatus(input.Status) {
		httputil.RespondErrorWithCode(w, "invalid status value", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateStatus(r.Context(), id, input.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "session not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update session status", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update session", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("session status updated", "session_id", id, "status", input.Status)

	httputil.RespondJSON(w, StatusResponse{
		Message: fmt.Sprintf("Session %d updated to %s", id, input.Status),
	}, http.StatusOK)
}
