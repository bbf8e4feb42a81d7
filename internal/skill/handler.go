package skill

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/logging"
)

// ListingStore is the persistence surface the handlers need.
type ListingStore interface {
	Search(ctx context.Context, params SearchParams) ([]Listing, error)
	Create(ctx context.Context, ownerEmail string, input CreateInput) (*Listing, error)
}

// Handler contains HTTP handlers for listing endpoints
type Handler struct {
	store  ListingStore
	logger *logging.Logger
}

func NewHandler(store ListingStore, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// CreateResponse represents the create-listing response
type CreateResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// List handles listing search
// @Summary      Browse listings
// @Description  Search and filter skill listings, newest first
// @Tags         skills
// @Produce      json
// @Param        search query string false "Case-insensitive substring match on offering, wanting, or description"
// @Param        category query string false "Exact category filter"
// @Param        tags query []string false "Required tags (listing must contain all)"
// @Success      200 {array} Listing
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /skills [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	query := r.URL.Query()
	params := SearchParams{
		Text:     query.Get("search"),
		Category: query.Get("category"),
		Tags:     query["tags"],
	}

	listings, err := h.store.Search(r.Context(), params)
	if err != nil {
		logger.Error("listing search failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to search listings", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, listings, http.StatusOK)
}

// Create handles posting a new listing
// @Summary      Post a listing
// @Description  Create a new skill listing attributed to the authenticated user
// @Tags         skills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Listing"
// @Success      201 {object} CreateResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /skills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing identity", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Warn("invalid create-listing request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	listing, err := h.store.Create(r.Context(), owner.Email, input)
	if err != nil {
		if errors.Is(err, ErrOfferingRequired) || errors.Is(err, ErrWantingRequired) {
			logger.Warn("create listing failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
			return
		}
		logger.Error("create listing failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create listing", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("listing created", "listing_id", listing.ID, "owner", owner.Email)

	httputil.RespondJSON(w, CreateResponse{
		Message: "Skill posted successfully!",
		ID:      listing.ID,
	}, http.StatusCreated)
}
