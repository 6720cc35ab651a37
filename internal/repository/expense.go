package repository

import (
	"context"
	"errors"
	"fmt"

	"splitrip-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense. When the expense references a trip, the
// ownership check and the insert run in one transaction so an expense can
// never end up attributed to a trip the caller does not own.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if expense.TripID != nil {
		var tripID string
		err := tx.QueryRow(ctx,
			`SELECT id FROM trips WHERE id = $1 AND user_id = $2`,
			*expense.TripID, expense.UserID,
		).Scan(&tripID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("trip not found: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to check trip ownership: %w", err)
		}
	}

	query := `
		INSERT INTO expenses (id, user_id, trip_id, name, amount_cents, currency, amount_settlement_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, query,
		expense.ID, expense.UserID, expense.TripID, expense.Name,
		expense.AmountCents, expense.Currency, expense.AmountSettlementCents, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves an expense owned by the given user
func (r *ExpenseRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Expense, error) {
	query := `
		SELECT id, user_id, trip_id, name, amount_cents, currency, amount_settlement_cents, created_at
		FROM expenses
		WHERE id = $1 AND user_id = $2
	`
	var expense models.Expense
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&expense.ID, &expense.UserID, &expense.TripID, &expense.Name,
		&expense.AmountCents, &expense.Currency, &expense.AmountSettlementCents, &expense.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

// ListByUser retrieves the user's expenses, newest first, optionally
// filtered to a single trip
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string, tripID *string) ([]*models.Expense, error) {
	query := `
		SELECT id, user_id, trip_id, name, amount_cents, currency, amount_settlement_cents, created_at
		FROM expenses
		WHERE user_id = $1 AND ($2::text IS NULL OR trip_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var expense models.Expense
		err := rows.Scan(
			&expense.ID, &expense.UserID, &expense.TripID, &expense.Name,
			&expense.AmountCents, &expense.Currency, &expense.AmountSettlementCents, &expense.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, &expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Update writes back the full mutable field set of an expense. The service
// layer resolves which fields changed; the statement itself is fixed, never
// assembled from request input. When the expense references a trip, the
// ownership check and the write run in one transaction, same as Create, so
// an update cannot attach the expense to a trip the caller does not own.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if expense.TripID != nil {
		var tripID string
		err := tx.QueryRow(ctx,
			`SELECT id FROM trips WHERE id = $1 AND user_id = $2`,
			*expense.TripID, expense.UserID,
		).Scan(&tripID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("trip not found: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to check trip ownership: %w", err)
		}
	}

	query := `
		UPDATE expenses
		SET name = $1, amount_cents = $2, trip_id = $3, amount_settlement_cents = $4
		WHERE id = $5 AND user_id = $6
	`
	result, err := tx.Exec(ctx, query,
		expense.Name, expense.AmountCents, expense.TripID, expense.AmountSettlementCents,
		expense.ID, expense.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %w", ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete deletes an expense owned by the given user
func (r *ExpenseRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %w", ErrNotFound)
	}
	return nil
}

// SumSettlementByTrip totals the settlement-currency amounts of a trip's
// expenses. A trip without expenses sums to zero.
func (r *ExpenseRepository) SumSettlementByTrip(ctx context.Context, tripID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_settlement_cents), 0) FROM expenses WHERE trip_id = $1`
	var total int64
	if err := r.db.QueryRow(ctx, query, tripID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum trip expenses: %w", err)
	}
	return total, nil
}
