package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TripHandler handles trip-related HTTP requests
type TripHandler struct {
	tripService *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the request body for creating a trip
type CreateTripRequest struct {
	Name          string           `json:"name"`
	StartDate     *string          `json:"start_date,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost,omitempty"`
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	in := services.CreateTripInput{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if req.EstimatedCost != nil {
		in.EstimatedCostCents = req.EstimatedCost.Shift(2).Round(0).IntPart()
	}

	trip, err := h.tripService.CreateTrip(ctx, userID, in)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create trip")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("trip_id", trip.ID).
		Str("name", trip.Name).
		Msg("Trip created")

	respondJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/trips
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	trips, err := h.tripService.ListTrips(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list trips")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trips": trips,
		"count": len(trips),
	})
}

// DeleteTrip handles DELETE /api/v1/trips/{trip_id}
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	if tripID == "" {
		respondError(w, "trip_id is required", http.StatusBadRequest)
		return
	}

	if err := h.tripService.DeleteTrip(ctx, tripID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("trip_id", tripID).
			Msg("Failed to delete trip")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("trip_id", tripID).
		Msg("Trip deleted")

	w.WriteHeader(http.StatusNoContent)
}

// parseDate parses an optional YYYY-MM-DD string
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
