package message

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/logging"
)

// MessageStore is the persistence surface the handlers need.
type MessageStore interface {
	Send(ctx context.Context, senderEmail string, input SendInput) (*Message, error)
	ListForUser(ctx context.Context, email string) ([]Message, error)
}

// Handler contains HTTP handlers for messaging endpoints
type Handler struct {
	store  MessageStore
	logger *logging.Logger
}

func NewHandler(store MessageStore, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// SendResponse represents the send-message response
type SendResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Send handles sending a message
// @Summary      Send a message
// @Description  Send a direct message or swap request to another user
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendInput true "Message"
// @Success      201 {object} SendResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /messages [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	sender, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	var input SendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Warn("invalid send-message request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	msg, err := h.store.Send(r.Context(), sender.Email, input)
	if err != nil {
		if errors.Is(err, ErrMissingFields) || errors.Is(err, ErrInvalidType) {
			logger.Warn("send message failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
			return
		}
		logger.Error("send message failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to send message", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("message sent", "message_id", msg.ID, "type", msg.Type)

	httputil.RespondJSON(w, SendResponse{Message: "Message sent", ID: msg.ID}, http.StatusCreated)
}

// List handles fetching the caller's messages
// @Summary      List messages
// @Description  All messages the authenticated user sent or received, newest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Message
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	messages, err := h.store.ListForUser(r.Context(), u.Email)
	if err != nil {
		logger.Error("list messages failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list messages", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, messages, http.StatusOK)
}
