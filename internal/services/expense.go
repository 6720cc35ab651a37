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
	"github.com/shopspring/decimal"
)

// ExpenseStore is the persistence surface the expense service needs
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Expense, error)
	ListByUser(ctx context.Context, userID string, tripID *string) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id, userID string) error
}

// AmountNormalizer converts an amount into the settlement currency.
// Conversion is fail-open: converted=false means the amount passed through
// unchanged because no rate was available.
type AmountNormalizer interface {
	Normalize(ctx context.Context, amountCents int64, currency string) (int64, bool)
	SettlementCurrency() string
}

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseStore ExpenseStore
	normalizer   AmountNormalizer
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseStore ExpenseStore, normalizer AmountNormalizer) *ExpenseService {
	return &ExpenseService{
		expenseStore: expenseStore,
		normalizer:   normalizer,
	}
}

// CreateExpenseInput carries the caller-supplied expense fields
type CreateExpenseInput struct {
	Name     string
	Amount   decimal.Decimal
	Currency string
	TripID   *string
}

// CreateExpense records an expense for userID. The settlement amount is
// always populated, falling back to the original amount when the rate
// lookup fails.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in CreateExpenseInput) (*models.Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: expense name is required", ErrValidation)
	}

	amountCents, err := toCents(in.Amount)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.normalizer.SettlementCurrency()
	}

	// Fail-open: when no rate is available the normalizer returns the
	// original amount and logs the miss, so the expense is still recorded.
	settledCents, _ := s.normalizer.Normalize(ctx, amountCents, currency)

	expense := &models.Expense{
		ID:                    uuid.New().String(),
		UserID:                userID,
		TripID:                in.TripID,
		Name:                  name,
		AmountCents:           amountCents,
		Currency:              currency,
		AmountSettlementCents: settledCents,
		CreatedAt:             time.Now(),
	}
	if err := s.expenseStore.Create(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves the user's expenses, optionally filtered to a trip
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, tripID *string) ([]*models.Expense, error) {
	expenses, err := s.expenseStore.ListByUser(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpenseInput is the fixed set of patchable expense fields. Nil
// pointers leave the field untouched; ClearTrip detaches the expense from
// its trip. Queries are never assembled from request input.
type UpdateExpenseInput struct {
	Name      *string
	Amount    *decimal.Decimal
	TripID    *string
	ClearTrip bool
}

// UpdateExpense applies a patch to an expense owned by userID. A changed
// amount is re-normalized with the expense's stored currency.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expenseID, userID string, in UpdateExpenseInput) (*models.Expense, error) {
	if in.Name == nil && in.Amount == nil && in.TripID == nil && !in.ClearTrip {
		return nil, fmt.Errorf("%w: at least one field must be provided", ErrValidation)
	}

	expense, err := s.expenseStore.GetByIDForUser(ctx, expenseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: expense name is required", ErrValidation)
		}
		expense.Name = name
	}

	if in.ClearTrip {
		expense.TripID = nil
	} else if in.TripID != nil {
		expense.TripID = in.TripID
	}

	if in.Amount != nil {
		amountCents, err := toCents(*in.Amount)
		if err != nil {
			return nil, err
		}
		expense.AmountCents = amountCents
		settledCents, _ := s.normalizer.Normalize(ctx, amountCents, expense.Currency)
		expense.AmountSettlementCents = settledCents
	}

	if err := s.expenseStore.Update(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The expense was loaded above, so a not-found here is the
			// store refusing the trip attachment.
			if in.TripID != nil {
				return nil, ErrTripNotFound
			}
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense deletes an expense owned by userID
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	if err := s.expenseStore.Delete(ctx, expenseID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// toCents converts a decimal amount to integer minor units, half-up on the
// third decimal place
func toCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
