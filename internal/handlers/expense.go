package handlers

import (
	"encoding/json"
	"net/http"

	"splitrip-backend/internal/middleware"
	"splitrip-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest is the request body for creating an expense
type CreateExpenseRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	TripID   *string         `json:"trip_id,omitempty"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense, err := h.expenseService.CreateExpense(ctx, userID, services.CreateExpenseInput{
		Name:     req.Name,
		Amount:   req.Amount,
		Currency: req.Currency,
		TripID:   req.TripID,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create expense")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("expense_id", expense.ID).
		Int64("amount_cents", expense.AmountCents).
		Str("currency", expense.Currency).
		Msg("Expense created")

	respondJSON(w, http.StatusCreated, expense)
}

// ListExpenses handles GET /api/v1/expenses?trip_id=...
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var tripID *string
	if v := r.URL.Query().Get("trip_id"); v != "" {
		tripID = &v
	}

	expenses, err := h.expenseService.ListExpenses(ctx, userID, tripID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list expenses")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"count":    len(expenses),
	})
}

// UpdateExpenseRequest is the request body for patching an expense. A JSON
// null trip_id detaches the expense from its trip.
type UpdateExpenseRequest struct {
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	TripID *string          `json:"trip_id,omitempty"`

	rawTrip json.RawMessage
}

func (r *UpdateExpenseRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateExpenseRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	*r = UpdateExpenseRequest(a)
	r.rawTrip = probe["trip_id"]
	return nil
}

// tripCleared reports whether the client sent an explicit null trip_id
func (r *UpdateExpenseRequest) tripCleared() bool {
	return string(r.rawTrip) == "null"
}

// UpdateExpense handles PUT /api/v1/expenses/{expense_id}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	expenseID := chi.URLParam(r, "expense_id")

	if expenseID == "" {
		respondError(w, "expense_id is required", http.StatusBadRequest)
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense, err := h.expenseService.UpdateExpense(ctx, expenseID, userID, services.UpdateExpenseInput{
		Name:      req.Name,
		Amount:    req.Amount,
		TripID:    req.TripID,
		ClearTrip: req.tripCleared(),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("expense_id", expenseID).
			Msg("Failed to update expense")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("expense_id", expense.ID).
		Msg("Expense updated")

	respondJSON(w, http.StatusOK, expense)
}

// DeleteExpense handles DELETE /api/v1/expenses/{expense_id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	expenseID := chi.URLParam(r, "expense_id")

	if expenseID == "" {
		respondError(w, "expense_id is required", http.StatusBadRequest)
		return
	}

	if err := h.expenseService.DeleteExpense(ctx, expenseID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("expense_id", expenseID).
			Msg("Failed to delete expense")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("expense_id", expenseID).
		Msg("Expense deleted")

	w.WriteHeader(http.StatusNoContent)
}
