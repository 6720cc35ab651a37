package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when the provider cannot supply a rate
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateProvider looks up the conversion rate between two currencies
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Client fetches rates from an exchangerate-api style HTTP provider
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a rate client. Every lookup is bounded by timeout so a
// slow provider can never leave an expense insert hanging.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Rate fetches the from -> to conversion rate
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v4/latest/%s", c.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("%w: provider returned status %d", ErrRateUnavailable, resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid provider response: %v", ErrRateUnavailable, err)
	}

	rate, ok := body.Rates[to]
	if !ok || rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrRateUnavailable, to)
	}

	return rate, nil
}

// Normalizer converts expense amounts into the settlement currency
type Normalizer struct {
	provider   RateProvider
	settlement string
}

// NewNormalizer creates a normalizer targeting the given settlement currency
func NewNormalizer(provider RateProvider, settlementCurrency string) *Normalizer {
	return &Normalizer{
		provider:   provider,
		settlement: settlementCurrency,
	}
}

// SettlementCurrency returns the canonical currency code
func (n *Normalizer) SettlementCurrency() string {
	return n.settlement
}

// Normalize converts amountCents in currency to settlement-currency cents.
// The settlement currency itself is an exact identity with no network call.
//
// Conversion is fail-open: when the provider is unreachable, answers non-2xx
// or omits the rate, the original amount is returned unconverted with
// converted=false so the expense can still be recorded.
func (n *Normalizer) Normalize(ctx context.Context, amountCents int64, currency string) (int64, bool) {
	if currency == n.settlement {
		return amountCents, true
	}

	rate, err := n.provider.Rate(ctx, currency, n.settlement)
	if err != nil {
		log.Warn().
			Err(err).
			Str("currency", currency).
			Str("settlement", n.settlement).
			Msg("Currency conversion unavailable, recording unconverted amount")
		return amountCents, false
	}

	settled := decimal.NewFromInt(amountCents).Mul(rate).Round(0)
	return settled.IntPart(), true
}
