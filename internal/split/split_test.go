package split

import (
	"math"
	"reflect"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		totalCents int64
		shares     []ParticipantShare
		validate   func(t *testing.T, r Result)
	}{
		{
			name:       "weighted two-person trip",
			totalCents: 20000, // expenses 120.00 + 80.00
			shares: []ParticipantShare{
				{UserID: "a", Email: "a@example.com", Share: 1.0},
				{UserID: "b", Email: "b@example.com", Share: 0.5},
			},
			validate: func(t *testing.T, r Result) {
				// totalShareWeight = 1.5: A owes 133.33, B owes 66.67
				if r.Entries[0].AmountOwedCents != 13333 {
					t.Errorf("A owes %d cents, want 13333", r.Entries[0].AmountOwedCents)
				}
				if r.Entries[1].AmountOwedCents != 6667 {
					t.Errorf("B owes %d cents, want 6667", r.Entries[1].AmountOwedCents)
				}
				sum := r.Entries[0].AmountOwedCents + r.Entries[1].AmountOwedCents
				if sum != 20000 {
					t.Errorf("rounded amounts sum to %d, want 20000", sum)
				}
			},
		},
		{
			name:       "zero expenses",
			totalCents: 0,
			shares: []ParticipantShare{
				{UserID: "a", Share: 0.7},
				{UserID: "b", Share: 0.3},
			},
			validate: func(t *testing.T, r Result) {
				if r.TotalCents != 0 {
					t.Errorf("total = %d, want 0", r.TotalCents)
				}
				for _, e := range r.Entries {
					if e.AmountOwedCents != 0 {
						t.Errorf("%s owes %d cents, want 0", e.UserID, e.AmountOwedCents)
					}
				}
			},
		},
		{
			name:       "zero participants",
			totalCents: 55500,
			shares:     nil,
			validate: func(t *testing.T, r Result) {
				if len(r.Entries) != 0 {
					t.Errorf("got %d entries, want 0", len(r.Entries))
				}
				if r.TotalCents != 55500 {
					t.Errorf("total = %d, want 55500", r.TotalCents)
				}
			},
		},
		{
			name:       "single participant owes everything",
			totalCents: 12345,
			shares:     []ParticipantShare{{UserID: "a", Share: 0.25}},
			validate: func(t *testing.T, r Result) {
				if r.Entries[0].NormalizedShare != 1.0 {
					t.Errorf("normalized share = %v, want 1.0", r.Entries[0].NormalizedShare)
				}
				if r.Entries[0].AmountOwedCents != 12345 {
					t.Errorf("owes %d cents, want 12345", r.Entries[0].AmountOwedCents)
				}
			},
		},
		{
			name:       "output preserves creation order",
			totalCents: 3000,
			shares: []ParticipantShare{
				{UserID: "c", Share: 0.2},
				{UserID: "a", Share: 0.2},
				{UserID: "b", Share: 0.2},
			},
			validate: func(t *testing.T, r Result) {
				got := []string{r.Entries[0].UserID, r.Entries[1].UserID, r.Entries[2].UserID}
				want := []string{"c", "a", "b"}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("order = %v, want %v", got, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Compute(tt.totalCents, tt.shares))
		})
	}
}

func TestComputeNormalizedSharesSumToOne(t *testing.T) {
	shareSets := [][]float64{
		{1.0},
		{1.0, 0.5},
		{0.3, 0.3, 0.3},
		{0.01, 1.0, 0.77, 0.42},
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	}

	for _, set := range shareSets {
		var shares []ParticipantShare
		for i, s := range set {
			shares = append(shares, ParticipantShare{UserID: string(rune('a' + i)), Share: s})
		}

		r := Compute(100000, shares)

		var sum float64
		for _, e := range r.Entries {
			sum += e.NormalizedShare
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("shares %v: normalized shares sum to %v, want 1.0", set, sum)
		}
	}
}

func TestComputeRoundingTolerance(t *testing.T) {
	// Independent per-participant rounding may drift from the total by at
	// most one cent per participant beyond the first.
	shares := []ParticipantShare{
		{UserID: "a", Share: 1.0},
		{UserID: "b", Share: 1.0},
		{UserID: "c", Share: 1.0},
	}

	for _, total := range []int64{100, 1000, 9999, 12345, 100003} {
		r := Compute(total, shares)

		var sum int64
		for _, e := range r.Entries {
			sum += e.AmountOwedCents
		}

		drift := sum - total
		if drift < 0 {
			drift = -drift
		}
		if drift > int64(len(shares)-1) {
			t.Errorf("total %d: rounded sum %d drifts by %d cents, tolerance is %d",
				total, sum, drift, len(shares)-1)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	shares := []ParticipantShare{
		{UserID: "a", Email: "a@example.com", Share: 0.9},
		{UserID: "b", Email: "b@example.com", Share: 0.35},
	}

	first := Compute(73210, shares)
	second := Compute(73210, shares)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
