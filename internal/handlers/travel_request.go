package handlers

import (
	"encoding/json"
	"net/http"

	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TravelRequestHandler handles travel approval HTTP requests
type TravelRequestHandler struct {
	requestService *services.TravelRequestService
}

// NewTravelRequestHandler creates a new travel request handler
func NewTravelRequestHandler(requestService *services.TravelRequestService) *TravelRequestHandler {
	return &TravelRequestHandler{requestService: requestService}
}

// CreateTravelRequestRequest is the request body for filing a travel request
type CreateTravelRequestRequest struct {
	Destination   string          `json:"destination"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Reason        string          `json:"reason"`
	Notes         *string         `json:"notes,omitempty"`
}

// CreateRequest handles POST /api/v1/travel-requests
func (h *TravelRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateTravelRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(&req.StartDate)
	if err != nil || startDate == nil {
		respondError(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseDate(&req.EndDate)
	if err != nil || endDate == nil {
		respondError(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	request, err := h.requestService.CreateRequest(ctx, userID, services.CreateRequestInput{
		Destination:        req.Destination,
		StartDate:          *startDate,
		EndDate:            *endDate,
		EstimatedCostCents: req.EstimatedCost.Shift(2).Round(0).IntPart(),
		Reason:             req.Reason,
		Notes:              req.Notes,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create travel request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("request_id", request.ID).
		Str("destination", request.Destination).
		Msg("Travel request created")

	respondJSON(w, http.StatusCreated, request)
}

// ListRequests handles GET /api/v1/travel-requests?status=...
func (h *TravelRequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	requests, err := h.requestService.ListRequests(ctx, userID, status)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list travel requests")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// UpdateStatusRequest is the request body for moving a request through the
// approval workflow
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse reports the outcome; TripID is set only on approval
type UpdateStatusResponse struct {
	Status string  `json:"status"`
	TripID *string `json:"trip_id,omitempty"`
}

// UpdateStatus handles PATCH /api/v1/travel-requests/{request_id}
func (h *TravelRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	if requestID == "" {
		respondError(w, "request_id is required", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trip, err := h.requestService.UpdateStatus(ctx, requestID, userID, req.Status)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("request_id", requestID).
			Str("status", req.Status).
			Msg("Failed to update travel request")
		respondServiceError(w, err)
		return
	}

	resp := UpdateStatusResponse{Status: req.Status}
	if trip != nil {
		resp.TripID = &trip.ID
		log.Info().
			Str("user_id", userID).
			Str("request_id", requestID).
			Str("trip_id", trip.ID).
			Msg("Travel request approved, trip created")
	} else {
		log.Info().
			Str("user_id", userID).
			Str("request_id", requestID).
			Str("status", req.Status).
			Msg("Travel request status updated")
	}

	respondJSON(w, http.StatusOK, resp)
}
