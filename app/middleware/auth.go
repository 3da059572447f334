package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"blogicum/app/log"
	"blogicum/app/models"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionReader extracts the signed in user id from a request.
type SessionReader interface {
	UserID(r *http.Request) (int, error)
}

// UserLookup loads the user behind a session.
type UserLookup interface {
	GetByID(id int) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user as the viewer.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser returns the signed in viewer of r, or nil for anonymous
// requests.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// Authenticate resolves the session of every request. Requests without a
// valid session, or whose user no longer exists, continue anonymously.
func Authenticate(sessions SessionReader, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.UserID(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(userID)
			if err != nil {
				log.Log.WithField("user_id", userID).Debug("session for unknown user")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// LoginURL is the sign in page that returns to next afterwards.
func LoginURL(next string) string {
	return "/auth/login?next=" + url.QueryEscape(next)
}

// RequireLogin sends anonymous visitors to the sign in page. API requests
// get 401 instead.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if WantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "login required"})
			return
		}
		http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
	})
}
