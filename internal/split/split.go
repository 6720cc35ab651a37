// Package split computes the per-participant breakdown of a trip's cost.
//
// The computation is a pure function of the trip's aggregated settlement
// total and its participant shares: no state is kept between calls, so a
// split can be recomputed at any time from the persisted rows alone.
package split

import "github.com/shopspring/decimal"

// ParticipantShare is the calculator's view of one share-ledger entry.
// Share is a weight in (0, 1], not necessarily normalized across the trip.
type ParticipantShare struct {
	UserID string
	Email  string
	Share  float64
}

// Entry is one participant's computed slice of the total.
type Entry struct {
	UserID          string  `json:"user_id"`
	Email           string  `json:"email"`
	Share           float64 `json:"share"`
	NormalizedShare float64 `json:"normalized_share"`
	AmountOwedCents int64   `json:"amount_owed_cents"`
}

// Result is the full breakdown for a trip.
type Result struct {
	TotalCents int64   `json:"total_cents"`
	Entries    []Entry `json:"participants"`
}

// Compute splits totalCents across the given shares.
//
// Each participant owes total * share / sum(shares), rounded half-up to a
// cent. Entries come back in the same order as the input (creation order),
// so rendering is deterministic. Zero participants yields an empty
// breakdown and zero expenses a zero total; neither is an error.
//
// Rounding is per participant, so the rounded amounts may drift from the
// total by at most one cent per participant beyond the first.
func Compute(totalCents int64, shares []ParticipantShare) Result {
	result := Result{TotalCents: totalCents}
	if len(shares) == 0 {
		return result
	}

	totalWeight := decimal.Zero
	for _, s := range shares {
		totalWeight = totalWeight.Add(decimal.NewFromFloat(s.Share))
	}

	total := decimal.NewFromInt(totalCents)
	result.Entries = make([]Entry, 0, len(shares))
	for _, s := range shares {
		normalized := decimal.NewFromFloat(s.Share).Div(totalWeight)
		owed := total.Mul(normalized).Round(0)
		result.Entries = append(result.Entries, Entry{
			UserID:          s.UserID,
			Email:           s.Email,
			Share:           s.Share,
			NormalizedShare: normalized.InexactFloat64(),
			AmountOwedCents: owed.IntPart(),
		})
	}

	return result
}
