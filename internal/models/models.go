package models

import "time"

// Travel request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// User represents a registered account. Participants invited by email before
// they ever log in are provisioned as regular users with a placeholder password.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trip represents a trip owned by a single user
type Trip struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	EstimatedCostCents int64      `json:"estimated_cost_cents"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Expense represents a logged expense. TripID is nil for personal expenses.
// AmountSettlementCents is always populated: when the exchange-rate lookup
// fails the original amount is carried over unconverted.
type Expense struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	TripID                *string   `json:"trip_id,omitempty"`
	Name                  string    `json:"name"`
	AmountCents           int64     `json:"amount_cents"`
	Currency              string    `json:"currency"`
	AmountSettlementCents int64     `json:"amount_settlement_cents"`
	CreatedAt             time.Time `json:"created_at"`
}

// ParticipantShare links a user to a trip with a cost weight in (0, 1].
// At most one row exists per (trip, user) pair. Shares are weights, not
// fractions: the split calculator normalizes them at computation time.
type ParticipantShare struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Share     float64   `json:"share"`
	CreatedAt time.Time `json:"created_at"`
}

// TravelRequest represents a pending approval for a future trip
type TravelRequest struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Destination        string    `json:"destination"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	EstimatedCostCents int64     `json:"estimated_cost_cents"`
	Reason             string    `json:"reason"`
	Notes              *string   `json:"notes,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}
