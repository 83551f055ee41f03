package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"restaurant-pos/internal/expense"
)

type ExpenseHandler struct {
	expenses expense.Service
	validate *validator.Validate
}

func NewExpenseHandler(expenses expense.Service) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		validate: validator.New(),
	}
}

func (h *ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.handleListExpenses)
	r.Post("/expenses", h.handleRecordExpense)
}

func (h *ExpenseHandler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListExpenses(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

type RecordExpenseRequest struct {
	Description string `json:"description" validate:"required"`
	Amount      int    `json:"amount" validate:"gte=0"`
	// SpentAt is optional RFC 3339; empty means "now".
	SpentAt string `json:"spent_at" validate:"omitempty"`
}

func (h *ExpenseHandler) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithValidationErrors(w, verrs)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var spentAt time.Time
	if req.SpentAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SpentAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "spent_at must be RFC 3339")
			return
		}
		spentAt = parsed
	}

	e, err := h.expenses.RecordExpense(r.Context(), req.Description, req.Amount, spentAt)
	if err != nil {
		respondWithMappedError(w, err, "Failed to record expense")
		return
	}

	respondWithJSON(w, http.StatusCreated, e)
}
