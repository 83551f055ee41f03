// Package session carries the authenticated waiter identity between
// requests as a signed cookie. The order ledger never reads it; the
// HTTP layer extracts the waiter id and passes it down explicitly.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v4"

	"restaurant-pos/internal/waiter"
)

const CookieName = "pos_session"

var ErrUnauthenticated = errors.New("no authenticated waiter")

// Session is the decoded identity of the signed-in staff member.
type Session struct {
	WaiterID   uuid.UUID
	WaiterName string
	IsManager  bool
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(w *waiter.Waiter) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"waiter_id":   w.ID.String(),
		"waiter_name": w.FullName,
		"manager":     w.IsManager,
		"exp":         now.Add(m.ttl).Unix(),
		"iat":         now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: failed to sign token: %w", err)
	}

	return signed, nil
}

func (m *Manager) Parse(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	idStr, _ := claims["waiter_id"].(string)
	waiterID, err := uuid.FromString(idStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	name, _ := claims["waiter_name"].(string)
	isManager, _ := claims["manager"].(bool)

	return &Session{WaiterID: waiterID, WaiterName: name, IsManager: isManager}, nil
}

// FromRequest resolves the session cookie; absence or a bad signature
// both surface as ErrUnauthenticated.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return m.Parse(cookie.Value)
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
