package services

import (
	"context"
	"fmt"

	"splitrip-backend/internal/models"
	"splitrip-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// In-memory store fakes. They return the same repository sentinels as the
// pgx implementations so the services' error mapping is exercised.

type fakeUserStore struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return fmt.Errorf("email already taken: %w", repository.ErrDuplicate)
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", repository.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", repository.ErrNotFound)
	}
	return user, nil
}

type fakeTripStore struct {
	trips map[string]*models.Trip
	order []string
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[string]*models.Trip)}
}

func (s *fakeTripStore) Create(ctx context.Context, trip *models.Trip) error {
	s.trips[trip.ID] = trip
	s.order = append(s.order, trip.ID)
	return nil
}

func (s *fakeTripStore) GetByIDForUser(ctx context.Context, id, userID string) (*models.Trip, error) {
	trip, ok := s.trips[id]
	if !ok || trip.UserID != userID {
		return nil, fmt.Errorf("trip not found: %w", repository.ErrNotFound)
	}
	return trip, nil
}

func (s *fakeTripStore) ListByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	var trips []*models.Trip
	for i := len(s.order) - 1; i >= 0; i-- {
		if trip := s.trips[s.order[i]]; trip != nil && trip.UserID == userID {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (s *fakeTripStore) Delete(ctx context.Context, id, userID string) error {
	trip, ok := s.trips[id]
	if !ok || trip.UserID != userID {
		return fmt.Errorf("trip not found: %w", repository.ErrNotFound)
	}
	delete(s.trips, id)
	return nil
}

type fakeExpenseStore struct {
	trips    *fakeTripStore
	expenses map[string]*models.Expense
	order    []string
}

func newFakeExpenseStore(trips *fakeTripStore) *fakeExpenseStore {
	return &fakeExpenseStore{
		trips:    trips,
		expenses: make(map[string]*models.Expense),
	}
}

func (s *fakeExpenseStore) Create(ctx context.Context, expense *models.Expense) error {
	if expense.TripID != nil {
		if _, err := s.trips.GetByIDForUser(ctx, *expense.TripID, expense.UserID); err != nil {
			return err
		}
	}
	s.expenses[expense.ID] = expense
	s.order = append(s.order, expense.ID)
	return nil
}

func (s *fakeExpenseStore) GetByIDForUser(ctx context.Context, id, userID string) (*models.Expense, error) {
	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID {
		return nil, fmt.Errorf("expense not found: %w", repository.ErrNotFound)
	}
	copied := *expense
	return &copied, nil
}

func (s *fakeExpenseStore) ListByUser(ctx context.Context, userID string, tripID *string) ([]*models.Expense, error) {
	var expenses []*models.Expense
	for i := len(s.order) - 1; i >= 0; i-- {
		expense := s.expenses[s.order[i]]
		if expense == nil || expense.UserID != userID {
			continue
		}
		if tripID != nil && (expense.TripID == nil || *expense.TripID != *tripID) {
			continue
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (s *fakeExpenseStore) Update(ctx context.Context, expense *models.Expense) error {
	if expense.TripID != nil {
		if _, err := s.trips.GetByIDForUser(ctx, *expense.TripID, expense.UserID); err != nil {
			return err
		}
	}
	existing, ok := s.expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return fmt.Errorf("expense not found: %w", repository.ErrNotFound)
	}
	copied := *expense
	s.expenses[expense.ID] = &copied
	return nil
}

func (s *fakeExpenseStore) Delete(ctx context.Context, id, userID string) error {
	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID {
		return fmt.Errorf("expense not found: %w", repository.ErrNotFound)
	}
	delete(s.expenses, id)
	return nil
}

func (s *fakeExpenseStore) SumSettlementByTrip(ctx context.Context, tripID string) (int64, error) {
	var total int64
	for _, expense := range s.expenses {
		if expense.TripID != nil && *expense.TripID == tripID {
			total += expense.AmountSettlementCents
		}
	}
	return total, nil
}

type fakeParticipantStore struct {
	trips  *fakeTripStore
	users  map[string]string // email -> user id
	shares []*models.ParticipantShare
}

func newFakeParticipantStore(trips *fakeTripStore) *fakeParticipantStore {
	return &fakeParticipantStore{
		trips: trips,
		users: make(map[string]string),
	}
}

func (s *fakeParticipantStore) Add(ctx context.Context, ownerID string, share *models.ParticipantShare, provisional *models.User) (bool, error) {
	if _, err := s.trips.GetByIDForUser(ctx, share.TripID, ownerID); err != nil {
		return false, err
	}

	provisioned := false
	userID, ok := s.users[share.Email]
	if !ok {
		s.users[share.Email] = provisional.ID
		userID = provisional.ID
		provisioned = true
	}
	share.UserID = userID

	for _, existing := range s.shares {
		if existing.TripID == share.TripID && existing.UserID == share.UserID {
			return false, fmt.Errorf("participant already on trip: %w", repository.ErrDuplicate)
		}
	}
	s.shares = append(s.shares, share)
	return provisioned, nil
}

func (s *fakeParticipantStore) ListByTrip(ctx context.Context, tripID, ownerID string) ([]*models.ParticipantShare, error) {
	if _, err := s.trips.GetByIDForUser(ctx, tripID, ownerID); err != nil {
		return nil, err
	}
	var shares []*models.ParticipantShare
	for _, share := range s.shares {
		if share.TripID == tripID {
			shares = append(shares, share)
		}
	}
	return shares, nil
}

type fakeTravelRequestStore struct {
	trips    *fakeTripStore
	requests map[string]*models.TravelRequest
	order    []string
}

func newFakeTravelRequestStore(trips *fakeTripStore) *fakeTravelRequestStore {
	return &fakeTravelRequestStore{
		trips:    trips,
		requests: make(map[string]*models.TravelRequest),
	}
}

func (s *fakeTravelRequestStore) Create(ctx context.Context, req *models.TravelRequest) error {
	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)
	return nil
}

func (s *fakeTravelRequestStore) GetByIDForUser(ctx context.Context, id, userID string) (*models.TravelRequest, error) {
	req, ok := s.requests[id]
	if !ok || req.UserID != userID {
		return nil, fmt.Errorf("travel request not found: %w", repository.ErrNotFound)
	}
	copied := *req
	return &copied, nil
}

func (s *fakeTravelRequestStore) ListByUser(ctx context.Context, userID string, status *string) ([]*models.TravelRequest, error) {
	var requests []*models.TravelRequest
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req == nil || req.UserID != userID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (s *fakeTravelRequestStore) UpdateStatus(ctx context.Context, id, userID, status string) error {
	req, ok := s.requests[id]
	if !ok || req.UserID != userID {
		return fmt.Errorf("travel request not found: %w", repository.ErrNotFound)
	}
	req.Status = status
	return nil
}

func (s *fakeTravelRequestStore) Approve(ctx context.Context, id, userID string, trip *models.Trip) error {
	if err := s.UpdateStatus(ctx, id, userID, models.RequestStatusApproved); err != nil {
		return err
	}
	return s.trips.Create(ctx, trip)
}

// fakeNormalizer converts with a fixed rate, or fails open when down
type fakeNormalizer struct {
	settlement string
	rate       decimal.Decimal
	down       bool
}

func (n *fakeNormalizer) Normalize(ctx context.Context, amountCents int64, currency string) (int64, bool) {
	if currency == n.settlement {
		return amountCents, true
	}
	if n.down {
		return amountCents, false
	}
	return decimal.NewFromInt(amountCents).Mul(n.rate).Round(0).IntPart(), true
}

func (n *fakeNormalizer) SettlementCurrency() string {
	return n.settlement
}
