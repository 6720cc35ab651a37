package handlers

import (
	"encoding/json"
	"net/http"

	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ParticipantHandler handles share-ledger HTTP requests
type ParticipantHandler struct {
	participantService *services.ParticipantService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// AddParticipantRequest is the request body for inviting a participant
type AddParticipantRequest struct {
	Email string   `json:"email"`
	Share *float64 `json:"share,omitempty"`
}

// AddParticipant handles POST /api/v1/trips/{trip_id}/participants
func (h *ParticipantHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	if tripID == "" {
		respondError(w, "trip_id is required", http.StatusBadRequest)
		return
	}

	var req AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Omitted share means the invitee carries a full weight.
	share := 1.0
	if req.Share != nil {
		share = *req.Share
	}

	participant, err := h.participantService.AddParticipant(ctx, tripID, userID, req.Email, share)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("trip_id", tripID).
			Str("email", req.Email).
			Msg("Failed to add participant")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("trip_id", tripID).
		Str("participant_id", participant.UserID).
		Float64("share", participant.Share).
		Msg("Participant added")

	respondJSON(w, http.StatusCreated, participant)
}

// ListParticipants handles GET /api/v1/trips/{trip_id}/participants
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := chi.URLParam(r, "trip_id")

	if tripID == "" {
		respondError(w, "trip_id is required", http.StatusBadRequest)
		return
	}

	participants, err := h.participantService.ListParticipants(ctx, tripID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("trip_id", tripID).
			Msg("Failed to list participants")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"participants": participants,
		"count":        len(participants),
	})
}
