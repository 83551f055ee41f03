package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/meals"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/table"
	"restaurant-pos/internal/waiter"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = "failed on rule '" + fe.Tag() + "'"
	}
	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, table.ErrTableNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, waiter.ErrWaiterNotFound),
		errors.Is(err, meals.ErrMealNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderNotOpen),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrProductUnavailable),
		errors.Is(err, table.ErrTableConflict),
		errors.Is(err, catalog.ErrDuplicateExternalID):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, waiter.ErrInvalidPin),
		errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, order.ErrWaiterRequired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondWithMappedError sends the sentinel's own message for expected
// failures and hides internals behind a generic message otherwise.
func respondWithMappedError(w http.ResponseWriter, err error, fallback string) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		respondWithError(w, code, fallback)
		return
	}
	respondWithError(w, code, err.Error())
}
