package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/meals"
)

// Browser is the slice of the external recipe client the browse
// endpoint uses.
type Browser interface {
	Search(ctx context.Context, query string) ([]meals.Meal, error)
	Random(ctx context.Context, count int) ([]meals.Meal, error)
}

// randomSuggestions is how many meals the browse screen shows when the
// manager has not typed a query yet.
const randomSuggestions = 6

type MealsHandler struct {
	browser  Browser
	importer *meals.Importer
	catalog  catalog.Service
	validate *validator.Validate
}

func NewMealsHandler(browser Browser, importer *meals.Importer, catalogSvc catalog.Service) *MealsHandler {
	return &MealsHandler{
		browser:  browser,
		importer: importer,
		catalog:  catalogSvc,
		validate: validator.New(),
	}
}

func (h *MealsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/meals", h.handleBrowseMeals)
	r.Post("/meals/import", h.handleImportMeal)
}

type BrowseMealsResponse struct {
	Query string       `json:"query"`
	Meals []meals.Meal `json:"meals"`
	// Imported marks external ids that already exist as products so
	// the screen can disable their import button.
	Imported map[string]bool `json:"imported"`
}

func (h *MealsHandler) handleBrowseMeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	var (
		found []meals.Meal
		err   error
	)
	if query == "" {
		found, err = h.browser.Random(ctx, randomSuggestions)
	} else {
		found, err = h.browser.Search(ctx, query)
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "External recipe catalog is unavailable")
		return
	}

	imported, err := h.importedExternalIDs(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to browse meals")
		return
	}

	respondWithJSON(w, http.StatusOK, BrowseMealsResponse{
		Query:    query,
		Meals:    found,
		Imported: imported,
	})
}

func (h *MealsHandler) importedExternalIDs(ctx context.Context) (map[string]bool, error) {
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	imported := make(map[string]bool)
	for _, p := range products {
		if p.ExternalSourceID != "" {
			imported[p.ExternalSourceID] = true
		}
	}
	return imported, nil
}

type ImportMealRequest struct {
	MealID string `json:"meal_id" validate:"required"`
}

func (h *MealsHandler) handleImportMeal(w http.ResponseWriter, r *http.Request) {
	var req ImportMealRequest
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

	product, err := h.importer.Import(r.Context(), req.MealID)
	if err != nil {
		respondWithMappedError(w, err, "Failed to import meal")
		return
	}

	respondWithJSON(w, http.StatusCreated, product)
}
