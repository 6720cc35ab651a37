package services

import (
	"context"
	"fmt"

	"splitrip-backend/internal/split"
)

// ExpenseSummer totals a trip's settlement-currency expenses
type ExpenseSummer interface {
	SumSettlementByTrip(ctx context.Context, tripID string) (int64, error)
}

// SplitService produces the per-participant cost breakdown for a trip.
// It holds no state of its own: every call recomputes from the current
// trip, expense and share-ledger rows.
type SplitService struct {
	tripService        *TripService
	participantService *ParticipantService
	expenses           ExpenseSummer
	settlementCurrency string
}

// NewSplitService creates a new split service
func NewSplitService(tripService *TripService, participantService *ParticipantService, expenses ExpenseSummer, settlementCurrency string) *SplitService {
	return &SplitService{
		tripService:        tripService,
		participantService: participantService,
		expenses:           expenses,
		settlementCurrency: settlementCurrency,
	}
}

// SplitResult is the computed breakdown returned to clients
type SplitResult struct {
	TripID             string        `json:"trip_id"`
	TripName           string        `json:"trip_name"`
	SettlementCurrency string        `json:"settlement_currency"`
	TotalCents         int64         `json:"total_cents"`
	Participants       []split.Entry `json:"participants"`
}

// ComputeSplit builds the breakdown for a trip owned by ownerID. A trip
// without expenses has a zero total and a trip without participants an
// empty breakdown; neither is an error.
func (s *SplitService) ComputeSplit(ctx context.Context, tripID, ownerID string) (*SplitResult, error) {
	trip, err := s.tripService.GetTrip(ctx, tripID, ownerID)
	if err != nil {
		return nil, err
	}

	totalCents, err := s.expenses.SumSettlementByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to total trip expenses: %w", err)
	}

	shares, err := s.participantService.ListParticipants(ctx, tripID, ownerID)
	if err != nil {
		return nil, err
	}

	calcShares := make([]split.ParticipantShare, 0, len(shares))
	for _, sh := range shares {
		calcShares = append(calcShares, split.ParticipantShare{
			UserID: sh.UserID,
			Email:  sh.Email,
			Share:  sh.Share,
		})
	}

	result := split.Compute(totalCents, calcShares)
	return &SplitResult{
		TripID:             trip.ID,
		TripName:           trip.Name,
		SettlementCurrency: s.settlementCurrency,
		TotalCents:         result.TotalCents,
		Participants:       result.Entries,
	}, nil
}
