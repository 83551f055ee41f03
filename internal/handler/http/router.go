// Package http wires the service layer to the outside world: a chi
// router with a cookie-session guard in front of the waiter and
// manager areas.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/expense"
	"restaurant-pos/internal/meals"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/table"
	"restaurant-pos/internal/waiter"
)

type RouterDeps struct {
	Sessions *session.Manager
	Tables   table.Service
	Orders   order.Service
	Catalog  catalog.Service
	Waiters  waiter.Service
	Expenses expense.Service
	Meals    Browser
	Importer *meals.Importer
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := NewAuthMiddleware(deps.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		NewAuthHandler(deps.Waiters, deps.Sessions).RegisterRoutes(r)

		// Waiter floor: any logged-in staff member.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireStaff)
			NewPosHandler(deps.Tables, deps.Orders, deps.Catalog, deps.Waiters).RegisterRoutes(r)
			NewExpenseHandler(deps.Expenses).RegisterRoutes(r)
		})

		// Manager area: menu maintenance and external imports.
		r.Route("/manager", func(r chi.Router) {
			r.Use(auth.RequireManager)
			NewCatalogHandler(deps.Catalog).RegisterRoutes(r)
			NewMealsHandler(deps.Meals, deps.Importer, deps.Catalog).RegisterRoutes(r)
		})
	})

	return r
}
