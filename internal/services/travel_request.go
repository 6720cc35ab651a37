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

// TravelRequestStore is the persistence surface the travel request service needs
type TravelRequestStore interface {
	Create(ctx context.Context, req *models.TravelRequest) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.TravelRequest, error)
	ListByUser(ctx context.Context, userID string, status *string) ([]*models.TravelRequest, error)
	UpdateStatus(ctx context.Context, id, userID, status string) error
	Approve(ctx context.Context, id, userID string, trip *models.Trip) error
}

// TravelRequestService handles the travel approval workflow
type TravelRequestService struct {
	requestStore TravelRequestStore
}

// NewTravelRequestService creates a new travel request service
func NewTravelRequestService(requestStore TravelRequestStore) *TravelRequestService {
	return &TravelRequestService{requestStore: requestStore}
}

// CreateRequestInput carries the caller-supplied request fields
type CreateRequestInput struct {
	Destination        string
	StartDate          time.Time
	EndDate            time.Time
	EstimatedCostCents int64
	Reason             string
	Notes              *string
}

// CreateRequest files a new travel request in pending state
func (s *TravelRequestService) CreateRequest(ctx context.Context, userID string, in CreateRequestInput) (*models.TravelRequest, error) {
	if strings.TrimSpace(in.Destination) == "" || strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: destination and reason are required", ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	if in.EstimatedCostCents <= 0 {
		return nil, ErrInvalidAmount
	}

	req := &models.TravelRequest{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Destination:        strings.TrimSpace(in.Destination),
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		EstimatedCostCents: in.EstimatedCostCents,
		Reason:             strings.TrimSpace(in.Reason),
		Notes:              in.Notes,
		Status:             models.RequestStatusPending,
		CreatedAt:          time.Now(),
	}

	if err := s.requestStore.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create travel request: %w", err)
	}
	return req, nil
}

// ListRequests retrieves the user's travel requests, optionally filtered
// by status
func (s *TravelRequestService) ListRequests(ctx context.Context, userID string, status *string) ([]*models.TravelRequest, error) {
	if status != nil && !validStatus(*status) {
		return nil, ErrInvalidStatus
	}
	requests, err := s.requestStore.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus moves a request to the given status. Approval also creates
// the trip from the request, atomically: the trip comes back non-nil only
// in that case.
func (s *TravelRequestService) UpdateStatus(ctx context.Context, requestID, userID, status string) (*models.Trip, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	if status != models.RequestStatusApproved {
		if err := s.requestStore.UpdateStatus(ctx, requestID, userID, status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRequestNotFound
			}
			return nil, fmt.Errorf("failed to update travel request: %w", err)
		}
		return nil, nil
	}

	req, err := s.requestStore.GetByIDForUser(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load travel request: %w", err)
	}

	trip := &models.Trip{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Name:               req.Destination,
		StartDate:          &req.StartDate,
		EndDate:            &req.EndDate,
		EstimatedCostCents: req.EstimatedCostCents,
		CreatedAt:          time.Now(),
	}

	if err := s.requestStore.Approve(ctx, requestID, userID, trip); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to approve travel request: %w", err)
	}
	return trip, nil
}

func validStatus(status string) bool {
	switch status {
	case models.RequestStatusPending, models.RequestStatusApproved, models.RequestStatusRejected:
		return true
	}
	return false
}
