package repository

import (
	"context"
	"errors"
	"fmt"

	"splitrip-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TravelRequestRepository handles database operations for travel requests
type TravelRequestRepository struct {
	db *pgxpool.Pool
}

// NewTravelRequestRepository creates a new travel request repository
func NewTravelRequestRepository(db *pgxpool.Pool) *TravelRequestRepository {
	return &TravelRequestRepository{db: db}
}

// Create creates a new travel request
func (r *TravelRequestRepository) Create(ctx context.Context, req *models.TravelRequest) error {
	query := `
		INSERT INTO travel_requests (id, user_id, destination, start_date, end_date, estimated_cost_cents, reason, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.UserID, req.Destination, req.StartDate, req.EndDate,
		req.EstimatedCostCents, req.Reason, req.Notes, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create travel request: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves a travel request owned by the given user
func (r *TravelRequestRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.TravelRequest, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, estimated_cost_cents, reason, notes, status, created_at
		FROM travel_requests
		WHERE id = $1 AND user_id = $2
	`
	var req models.TravelRequest
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&req.ID, &req.UserID, &req.Destination, &req.StartDate, &req.EndDate,
		&req.EstimatedCostCents, &req.Reason, &req.Notes, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("travel request not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get travel request: %w", err)
	}
	return &req, nil
}

// ListByUser retrieves the user's travel requests, newest first, optionally
// filtered by status
func (r *TravelRequestRepository) ListByUser(ctx context.Context, userID string, status *string) ([]*models.TravelRequest, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, estimated_cost_cents, reason, notes, status, created_at
		FROM travel_requests
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.TravelRequest
	for rows.Next() {
		var req models.TravelRequest
		err := rows.Scan(
			&req.ID, &req.UserID, &req.Destination, &req.StartDate, &req.EndDate,
			&req.EstimatedCostCents, &req.Reason, &req.Notes, &req.Status, &req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating travel requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus sets the status of a request owned by the given user
func (r *TravelRequestRepository) UpdateStatus(ctx context.Context, id, userID, status string) error {
	query := `UPDATE travel_requests SET status = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.Exec(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update travel request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("travel request not found: %w", ErrNotFound)
	}
	return nil
}

// Approve marks the request approved and creates the resulting trip in the
// same transaction, so a request can never be approved without its trip.
func (r *TravelRequestRepository) Approve(ctx context.Context, id, userID string, trip *models.Trip) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE travel_requests SET status = $1 WHERE id = $2 AND user_id = $3`,
		models.RequestStatusApproved, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to approve travel request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("travel request not found: %w", ErrNotFound)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO trips (id, user_id, name, start_date, end_date, estimated_cost_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		trip.ID, trip.UserID, trip.Name, trip.StartDate, trip.EndDate,
		trip.EstimatedCostCents, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip from request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
