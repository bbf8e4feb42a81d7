package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/user"
)

// ProfileStore is the slice of the user repository the profile handlers need.
type ProfileStore interface {
	GetProfileByName(ctx context.Context, name string) (*user.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update user.ProfileUpdate) error
}

// Handler contains HTTP handlers for profile endpoints
type Handler struct {
	store  ProfileStore
	logger *logging.Logger
}

func NewHandler(store ProfileStore, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// UpdateRequest represents the profile update body. Absent fields are left
// unchanged; present skill lists replace the stored lists.
type UpdateRequest struct {
	Name          *string             `json:"name"`
	Tagline       *string             `json:"tagline"`
	SkillsOffered []user.SkillOffered `json:"skills_offered"`
	SkillsWanted  []user.SkillWanted  `json:"skills_wanted"`
}

// UpdateResponse represents the profile update response
type UpdateResponse struct {
	Message string `json:"message"`
}

// Get handles fetching a public profile
// @Summary      Get a profile
// @Description  Public profile for a display name, with offered/wanted skills and exchanges
// @Tags         profile
// @Produce      json
// @Param        username path string true "Display name"
// @Success      200 {object} user.Profile
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /profile/{username} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	username := chi.URLParam(r, "username")

	p, err := h.store.GetProfileByName(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to load profile", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Update handles updating the caller's profile
// @Summary      Update profile
// @Description  Update the authenticated user's name, tagline, and skill lists
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateRequest true "Profile fields"
// @Success      200 {object} UpdateResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Update failed"
// @Router       /profile/update [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	update := user.ProfileUpdate{
		Name:          req.Name,
		Tagline:       req.Tagline,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	}

	if err := h.store.UpdateProfile(r.Context(), u.ID, update); err != nil {
		logger.Error("profile update failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("profile updated", "user_id", u.ID)

	httputil.RespondJSON(w, UpdateResponse{Message: "Profile updated successfully"}, http.StatusOK)
}
