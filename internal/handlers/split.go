package handlers

import (
	"net/http"

	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SplitHandler handles split computation HTTP requests
type SplitHandler struct {
	splitService *services.SplitService
}

// NewSplitHandler creates a new split handler
func NewSplitHandler(splitService *services.SplitService) *SplitHandler {
	return &SplitHandler{splitService: splitService}
}

// GetSplit handles GET /api/v1/trips/{trip_id}/split
func (h *SplitHandler) GetSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	if tripID == "" {
		respondError(w, "trip_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.splitService.ComputeSplit(ctx, tripID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("trip_id", tripID).
			Msg("Failed to compute split")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
