// Package auth issues and reads the signed session token that identifies the
// signed in user.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// CookieName is the cookie carrying the session token.
const CookieName = "blogicum_session"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// Sessions signs session tokens with an HMAC secret.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions creates a session manager. Secure cookies are only sent over
// HTTPS and should be enabled in production.
func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// GenerateToken returns a signed token for userID.
func (s *Sessions) GenerateToken(userID int) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken returns the user id carried by a token signed with our
// secret.
func (s *Sessions) ValidateToken(tokenString string) (int, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidSession, err.Error())
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidSession
	}

	return claims.UserID, nil
}

// Issue signs userID in and stores the token in the session cookie.
func (s *Sessions) Issue(w http.ResponseWriter, userID int) error {
	token, err := s.GenerateToken(userID)
	if err != nil {
		return errors.Wrap(err, "failed to sign session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID reads the session of r from the cookie, or from a bearer
// Authorization header for API clients.
func (s *Sessions) UserID(r *http.Request) (int, error) {
	var token string
	if cookie, err := r.Cookie(CookieName); err == nil {
		token = cookie.Value
	} else if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}

	if token == "" {
		return 0, ErrNoSession
	}
	return s.ValidateToken(token)
}
