package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"splitrip-backend/internal/models"
)

func requestInput() CreateRequestInput {
	return CreateRequestInput{
		Destination:        "Lisbon",
		StartDate:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		EstimatedCostCents: 250000,
		Reason:             "Team offsite",
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc := NewTravelRequestService(newFakeTravelRequestStore(newFakeTripStore()))
	ctx := context.Background()

	in := requestInput()
	in.Destination = "  "
	if _, err := svc.CreateRequest(ctx, "user", in); !errors.Is(err, ErrValidation) {
		t.Errorf("blank destination: err = %v, want ErrValidation", err)
	}

	in = requestInput()
	in.EndDate = in.StartDate.AddDate(0, 0, -1)
	if _, err := svc.CreateRequest(ctx, "user", in); !errors.Is(err, ErrValidation) {
		t.Errorf("inverted dates: err = %v, want ErrValidation", err)
	}

	in = requestInput()
	in.EstimatedCostCents = 0
	if _, err := svc.CreateRequest(ctx, "user", in); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero cost: err = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateRequestStartsPending(t *testing.T) {
	svc := NewTravelRequestService(newFakeTravelRequestStore(newFakeTripStore()))

	req, err := svc.CreateRequest(context.Background(), "user", requestInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
}

func TestListRequestsStatusFilter(t *testing.T) {
	store := newFakeTravelRequestStore(newFakeTripStore())
	svc := NewTravelRequestService(store)
	ctx := context.Background()

	first, err := svc.CreateRequest(ctx, "user", requestInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if _, err := svc.CreateRequest(ctx, "user", requestInput()); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, first.ID, "user", models.RequestStatusRejected); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	rejected := models.RequestStatusRejected
	requests, err := svc.ListRequests(ctx, "user", &rejected)
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != first.ID {
		t.Errorf("filtered list = %+v, want only the rejected request", requests)
	}

	bogus := "shipped"
	if _, err := svc.ListRequests(ctx, "user", &bogus); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bogus status: err = %v, want ErrInvalidStatus", err)
	}
}

func TestApproveCreatesTrip(t *testing.T) {
	trips := newFakeTripStore()
	store := newFakeTravelRequestStore(trips)
	svc := NewTravelRequestService(store)
	tripService := NewTripService(trips)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "user", requestInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	trip, err := svc.UpdateStatus(ctx, req.ID, "user", models.RequestStatusApproved)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if trip == nil {
		t.Fatal("expected a trip from approval")
	}
	if trip.Name != "Lisbon" {
		t.Errorf("trip name = %q, want destination Lisbon", trip.Name)
	}
	if trip.EstimatedCostCents != 250000 {
		t.Errorf("trip estimated cost = %d, want 250000", trip.EstimatedCostCents)
	}

	// Trip is visible through the trip service and the request is approved.
	if _, err := tripService.GetTrip(ctx, trip.ID, "user"); err != nil {
		t.Errorf("approved trip not retrievable: %v", err)
	}
	stored, err := store.GetByIDForUser(ctx, req.ID, "user")
	if err != nil {
		t.Fatalf("GetByIDForUser failed: %v", err)
	}
	if stored.Status != models.RequestStatusApproved {
		t.Errorf("request status = %q, want approved", stored.Status)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := NewTravelRequestService(newFakeTravelRequestStore(newFakeTripStore()))
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, "missing", "user", models.RequestStatusRejected); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("reject missing: err = %v, want ErrRequestNotFound", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", "user", models.RequestStatusApproved); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("approve missing: err = %v, want ErrRequestNotFound", err)
	}

	req, err := svc.CreateRequest(ctx, "user", requestInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, req.ID, "someone-else", models.RequestStatusRejected); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("foreign user: err = %v, want ErrRequestNotFound", err)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc := NewTravelRequestService(newFakeTravelRequestStore(newFakeTripStore()))

	if _, err := svc.UpdateStatus(context.Background(), "any", "user", "done"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}
