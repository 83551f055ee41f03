package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/session"
	"restaurant-pos/internal/waiter"
)

type AuthHandler struct {
	waiters  waiter.Service
	sessions *session.Manager
	validate *validator.Validate
}

func NewAuthHandler(waiters waiter.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		waiters:  waiters,
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type LoginRequest struct {
	Pin  string `json:"pin" validate:"required"`
	Mode string `json:"mode" validate:"omitempty,oneof=waiter manager"`
}

type LoginResponse struct {
	WaiterID  string `json:"waiter_id"`
	FullName  string `json:"full_name"`
	IsManager bool   `json:"is_manager"`
}

// handleLogin authenticates a PIN and issues the session cookie. The
// manager mode additionally requires the manager flag on the account.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
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

	var (
		staff *waiter.Waiter
		err   error
	)
	if req.Mode == "manager" {
		staff, err = h.waiters.LoginManagerWithPin(r.Context(), req.Pin)
	} else {
		staff, err = h.waiters.LoginWithPin(r.Context(), req.Pin)
	}
	if err != nil {
		respondWithMappedError(w, err, "Failed to log in")
		return
	}

	token, err := h.sessions.Issue(staff)
	if err != nil {
		log.Error().Err(err).Stringer("waiter_id", staff.ID).Msg("handler: failed to issue session")
		respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.sessions.SetCookie(w, token)
	respondWithJSON(w, http.StatusOK, LoginResponse{
		WaiterID:  staff.ID.String(),
		FullName:  staff.FullName,
		IsManager: staff.IsManager,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe reports the identity behind the current session cookie.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.FromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		WaiterID:  sess.WaiterID.String(),
		FullName:  sess.WaiterName,
		IsManager: sess.IsManager,
	})
}
