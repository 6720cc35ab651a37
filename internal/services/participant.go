package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"splitrip-backend/internal/models"
	"splitrip-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Invited users who have never registered get this placeholder password.
// They can log in with it and are expected to change it afterwards, the
// same trade-off the invite-by-email flow has always made.
const placeholderPassword = "123456"

// ParticipantStore is the persistence surface the share ledger needs
type ParticipantStore interface {
	Add(ctx context.Context, ownerID string, share *models.ParticipantShare, provisional *models.User) (bool, error)
	ListByTrip(ctx context.Context, tripID, ownerID string) ([]*models.ParticipantShare, error)
}

// ParticipantService maintains the per-trip share ledger
type ParticipantService struct {
	participantStore ParticipantStore
}

// NewParticipantService creates a new participant service
func NewParticipantService(participantStore ParticipantStore) *ParticipantService {
	return &ParticipantService{participantStore: participantStore}
}

// AddParticipant puts email on tripID's ledger with the given share weight.
// Only the trip owner may invite. Unknown emails are provisioned as new
// users inside the same transaction as the share insert. Re-adding a
// (trip, user) pair is rejected with ErrDuplicateParticipant and leaves the
// ledger unchanged.
func (s *ParticipantService) AddParticipant(ctx context.Context, tripID, ownerID, email string, shareWeight float64) (*models.ParticipantShare, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid participant email is required", ErrValidation)
	}
	if shareWeight <= 0 || shareWeight > 1 {
		return nil, ErrInvalidShare
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(placeholderPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	now := time.Now()
	share := &models.ParticipantShare{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Email:     email,
		Share:     shareWeight,
		CreatedAt: now,
	}
	provisional := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	if _, err := s.participantStore.Add(ctx, ownerID, share, provisional); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTripNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateParticipant
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	return share, nil
}

// ListParticipants returns tripID's ledger in creation order, scoped to the
// trip owner
func (s *ParticipantService) ListParticipants(ctx context.Context, tripID, ownerID string) ([]*models.ParticipantShare, error) {
	shares, err := s.participantStore.ListByTrip(ctx, tripID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return shares, nil
}
