package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/identity"
	"github.com/skillswap/skillswap-api/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	IDToken string `json:"idToken"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProtectedResponse represents the protected probe response
type ProtectedResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

// Login handles user login
// @Summary      Log in with an external identity assertion
// @Description  Verify a provider-issued ID token, create the user on first login, and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Identity assertion"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing or invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Assertion rejected by the identity authority"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.IDToken == "" {
		logger.Warn("login failed: missing idToken")
		httputil.RespondErrorWithCode(w, "idToken is required", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	result, err := h.service.Login(r.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidAssertion) {
			logger.Warn("login failed: assertion rejected")
			httputil.RespondErrorWithCode(w, "identity verification failed", httputil.CodeInvalidAssertion, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to log in", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", result.User.ID, "email", result.User.Email)

	httputil.RespondJSON(w, LoginResponse{
		Token: result.Token,
		Name:  result.User.DisplayName,
		Email: result.User.Email,
	}, http.StatusOK)
}

// Protected is a probe endpoint behind the request gate
// @Summary      Protected probe endpoint
// @Description  Returns the identity resolved by the request gate
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProtectedResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /protected [get]
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ProtectedResponse{
		Message: "authenticated",
		User:    u.Email,
	}, http.StatusOK)
}
