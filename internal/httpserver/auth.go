// internal/httpserver/auth.go
//
// Game tokens: an HS256 JWT minted by POST /game/new that carries the game id.
// Presenting it (Authorization: Bearer or the token cookie) is what lets a
// client click pegs and reset a board; reads stay public.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// signGameToken creates an HS256 JWT for gameID with the configured expiry.
func (s *Server) signGameToken(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gameId": gameID,
		"exp":    exp.Unix(),
		"iat":    now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseGameToken verifies tok and returns its game id.
func (s *Server) parseGameToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	id, _ := claims["gameId"].(string)
	if id == "" {
		return "", errors.New("invalid token")
	}
	return id, nil
}

// setGameCookie writes the game token cookie, scoped to the game's routes so
// several boards can be open in one browser.
func (s *Server) setGameCookie(w http.ResponseWriter, gameID, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Secure {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/game/" + gameID,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the token cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireGameToken enforces a valid token for the game named in the {id} URL param.
func (s *Server) requireGameToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id, err := s.parseGameToken(tok)
			if err != nil || id != chi.URLParam(r, "id") {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
