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
)

// TripStore is the persistence surface the trip service needs
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Trip, error)
	Delete(ctx context.Context, id, userID string) error
}

// TripService handles trip-related business logic
type TripService struct {
	tripStore TripStore
}

// NewTripService creates a new trip service
func NewTripService(tripStore TripStore) *TripService {
	return &TripService{tripStore: tripStore}
}

// CreateTripInput carries the caller-supplied trip fields
type CreateTripInput struct {
	Name               string
	StartDate          *time.Time
	EndDate            *time.Time
	EstimatedCostCents int64
}

// CreateTrip creates a trip owned by userID
func (s *TripService) CreateTrip(ctx context.Context, userID string, in CreateTripInput) (*models.Trip, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: trip name is required", ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	if in.EstimatedCostCents < 0 {
		return nil, ErrInvalidAmount
	}

	trip := &models.Trip{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Name:               name,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		EstimatedCostCents: in.EstimatedCostCents,
		CreatedAt:          time.Now(),
	}

	if err := s.tripStore.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

// GetTrip retrieves a trip owned by userID
func (s *TripService) GetTrip(ctx context.Context, tripID, userID string) (*models.Trip, error) {
	trip, err := s.tripStore.GetByIDForUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTrips retrieves the user's trips, newest first
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	trips, err := s.tripStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// DeleteTrip deletes a trip owned by userID, cascading its expenses and
// participant shares
func (s *TripService) DeleteTrip(ctx context.Context, tripID, userID string) error {
	if err := s.tripStore.Delete(ctx, tripID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}
