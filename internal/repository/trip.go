package repository

import (
	"context"
	"errors"
	"fmt"

	"splitrip-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, name, start_date, end_date, estimated_cost_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		trip.ID, trip.UserID, trip.Name, trip.StartDate, trip.EndDate,
		trip.EstimatedCostCents, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves a trip owned by the given user
func (r *TripRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Trip, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, estimated_cost_cents, created_at
		FROM trips
		WHERE id = $1 AND user_id = $2
	`
	var trip models.Trip
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&trip.ID, &trip.UserID, &trip.Name, &trip.StartDate, &trip.EndDate,
		&trip.EstimatedCostCents, &trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// ListByUser retrieves the user's trips, newest first
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, estimated_cost_cents, created_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		var trip models.Trip
		err := rows.Scan(
			&trip.ID, &trip.UserID, &trip.Name, &trip.StartDate, &trip.EndDate,
			&trip.EstimatedCostCents, &trip.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}

	return trips, nil
}

// Delete deletes a trip owned by the given user. The trip's expenses and
// participant shares cascade away with it.
func (r *TripRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM trips WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip not found: %w", ErrNotFound)
	}
	return nil
}
