package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"restaurant-pos/internal/catalog"
)

// CatalogHandler serves the manager's menu maintenance screens.
type CatalogHandler struct {
	catalog  catalog.Service
	validate *validator.Validate
}

func NewCatalogHandler(catalogSvc catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalogSvc,
		validate: validator.New(),
	}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleListProducts)
	r.Post("/products", h.handleCreateProduct)
	r.Put("/products/{productID}", h.handleUpdateProduct)
	r.Get("/categories", h.handleListCategories)
	r.Post("/categories", h.handleCreateCategory)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"products": products})
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id" validate:"required,uuid4"`
	Price       int    `json:"price" validate:"gte=0"`
	IsAvailable bool   `json:"is_available"`
}

func (h *CatalogHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	categoryID, err := uuid.FromString(req.CategoryID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondWithMappedError(w, err, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.FromString(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	categoryID, err := uuid.FromString(req.CategoryID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	p := &catalog.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	}
	if err := h.catalog.UpdateProduct(r.Context(), p); err != nil {
		respondWithMappedError(w, err, "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithValidationErrors(w, verrs)
			return nil, false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	return &req, true
}

func (h *CatalogHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type CategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

func (h *CatalogHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
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

	c, err := h.catalog.CreateCategory(r.Context(), req.Name, req.DisplayOrder)
	if err != nil {
		respondWithMappedError(w, err, "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}
