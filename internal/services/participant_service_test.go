package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"splitrip-backend/internal/models"
)

func seedTrip(t *testing.T, trips *fakeTripStore, ownerID string) *models.Trip {
	t.Helper()
	trip := &models.Trip{ID: "trip-1", UserID: ownerID, Name: "Beach week", CreatedAt: time.Now()}
	if err := trips.Create(context.Background(), trip); err != nil {
		t.Fatalf("failed to seed trip: %v", err)
	}
	return trip
}

func TestAddParticipantShareRange(t *testing.T) {
	trips := newFakeTripStore()
	seedTrip(t, trips, "owner")
	svc := NewParticipantService(newFakeParticipantStore(trips))

	for _, share := range []float64{0, -0.5, 1.01, 42} {
		_, err := svc.AddParticipant(context.Background(), "trip-1", "owner", "b@example.com", share)
		if !errors.Is(err, ErrInvalidShare) {
			t.Errorf("share %v: err = %v, want ErrInvalidShare", share, err)
		}
	}

	// Boundary: exactly 1 is valid.
	if _, err := svc.AddParticipant(context.Background(), "trip-1", "owner", "b@example.com", 1.0); err != nil {
		t.Errorf("share 1.0: unexpected error %v", err)
	}
}

func TestAddParticipantProvisionsUnknownEmail(t *testing.T) {
	trips := newFakeTripStore()
	seedTrip(t, trips, "owner")
	store := newFakeParticipantStore(trips)
	svc := NewParticipantService(store)

	share, err := svc.AddParticipant(context.Background(), "trip-1", "owner", "New@Example.com", 0.5)
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if share.UserID == "" {
		t.Error("expected a provisioned user ID on the share")
	}
	if share.Email != "new@example.com" {
		t.Errorf("email = %q, want normalized new@example.com", share.Email)
	}
	if _, ok := store.users["new@example.com"]; !ok {
		t.Error("expected invited user to be provisioned")
	}
}

func TestAddParticipantDuplicate(t *testing.T) {
	trips := newFakeTripStore()
	seedTrip(t, trips, "owner")
	store := newFakeParticipantStore(trips)
	svc := NewParticipantService(store)
	ctx := context.Background()

	if _, err := svc.AddParticipant(ctx, "trip-1", "owner", "b@example.com", 0.5); err != nil {
		t.Fatalf("first AddParticipant failed: %v", err)
	}

	_, err := svc.AddParticipant(ctx, "trip-1", "owner", "b@example.com", 0.8)
	if !errors.Is(err, ErrDuplicateParticipant) {
		t.Fatalf("err = %v, want ErrDuplicateParticipant", err)
	}

	// The ledger still holds exactly one entry with the original share.
	shares, err := svc.ListParticipants(ctx, "trip-1", "owner")
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(shares) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(shares))
	}
	if shares[0].Share != 0.5 {
		t.Errorf("share = %v, want original 0.5", shares[0].Share)
	}
}

func TestAddParticipantTripOwnership(t *testing.T) {
	trips := newFakeTripStore()
	seedTrip(t, trips, "owner")
	svc := NewParticipantService(newFakeParticipantStore(trips))
	ctx := context.Background()

	if _, err := svc.AddParticipant(ctx, "trip-1", "intruder", "b@example.com", 0.5); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("foreign trip: err = %v, want ErrTripNotFound", err)
	}
	if _, err := svc.AddParticipant(ctx, "missing", "owner", "b@example.com", 0.5); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("missing trip: err = %v, want ErrTripNotFound", err)
	}
}

func TestListParticipantsCreationOrder(t *testing.T) {
	trips := newFakeTripStore()
	seedTrip(t, trips, "owner")
	svc := NewParticipantService(newFakeParticipantStore(trips))
	ctx := context.Background()

	emails := []string{"c@example.com", "a@example.com", "b@example.com"}
	for _, email := range emails {
		if _, err := svc.AddParticipant(ctx, "trip-1", "owner", email, 0.5); err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", email, err)
		}
	}

	shares, err := svc.ListParticipants(ctx, "trip-1", "owner")
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	for i, email := range emails {
		if shares[i].Email != email {
			t.Errorf("position %d = %s, want %s (creation order)", i, shares[i].Email, email)
		}
	}
}
