package repository

import (
	"context"
	"errors"
	"fmt"

	"splitrip-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository handles database operations for the share ledger
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Add inserts a share-ledger entry for share.Email on share.TripID.
//
// Everything runs in one transaction: the trip ownership check, the email
// lookup, provisioning of the invited user when no account exists yet, and
// the share insert. A failure at any step leaves no orphaned user row.
//
// provisional carries the prebuilt user record (ID, email, placeholder
// credential) to insert if the email is unknown. Add reports whether it was
// used. share.UserID is populated with the resolved user ID either way.
//
// Returns ErrNotFound when the trip is missing or not owned by ownerID, and
// ErrDuplicate when the (trip, user) pair is already on the ledger.
func (r *ParticipantRepository) Add(ctx context.Context, ownerID string, share *models.ParticipantShare, provisional *models.User) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var tripID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM trips WHERE id = $1 AND user_id = $2`,
		share.TripID, ownerID,
	).Scan(&tripID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return false, fmt.Errorf("failed to check trip ownership: %w", err)
	}

	provisioned := false
	var userID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		share.Email,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			provisional.ID, provisional.Name, provisional.Email,
			provisional.PasswordHash, provisional.CreatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("failed to provision invited user: %w", err)
		}
		userID = provisional.ID
		provisioned = true
	} else if err != nil {
		return false, fmt.Errorf("failed to look up invited user: %w", err)
	}
	share.UserID = userID

	_, err = tx.Exec(ctx,
		`INSERT INTO trip_participants (id, trip_id, user_id, share, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		share.ID, share.TripID, share.UserID, share.Share, share.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("participant already on trip: %w", ErrDuplicate)
		}
		return false, fmt.Errorf("failed to insert participant share: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return provisioned, nil
}

// ListByTrip retrieves a trip's participant shares in creation order,
// scoped to the trip owner
func (r *ParticipantRepository) ListByTrip(ctx context.Context, tripID, ownerID string) ([]*models.ParticipantShare, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`SELECT id FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, ownerID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check trip ownership: %w", err)
	}

	query := `
		SELECT tp.id, tp.trip_id, tp.user_id, u.email, tp.share, tp.created_at
		FROM trip_participants tp
		JOIN users u ON tp.user_id = u.id
		WHERE tp.trip_id = $1
		ORDER BY tp.created_at ASC, tp.id ASC
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var shares []*models.ParticipantShare
	for rows.Next() {
		var share models.ParticipantShare
		err := rows.Scan(
			&share.ID, &share.TripID, &share.UserID, &share.Email,
			&share.Share, &share.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant share: %w", err)
		}
		shares = append(shares, &share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant shares: %w", err)
	}

	return shares, nil
}
