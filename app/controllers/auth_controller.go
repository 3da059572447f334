package controllers

import (
	"net/http"
	"strings"

	"blogicum/app/auth"
	"blogicum/app/log"
	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/pkg/errors"
)

const invalidLogin = "Please enter a correct username and password."

// AuthController handles registration and sessions
type AuthController struct {
	base
	userService *services.UserService
	sessions    *auth.Sessions
}

func NewAuthController(renderer *views.Renderer, userService *services.UserService, sessions *auth.Sessions) *AuthController {
	return &AuthController{
		base:        base{views: renderer},
		userService: userService,
		sessions:    sessions,
	}
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// RegistrationForm displays the sign up form. Signed in users go home.
func (ac *AuthController) RegistrationForm(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r) != nil {
		redirect(w, r, "/")
		return
	}
	ac.render(w, r, http.StatusOK, views.PageRegistration, &views.Data{Title: "Sign up"})
}

// Register creates the account and signs the new user in.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.RegistrationForm{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password1: r.FormValue("password1"),
		Password2: r.FormValue("password2"),
	}
	user, err := ac.userService.Register(form)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			ac.render(w, r, http.StatusUnprocessableEntity, views.PageRegistration, &views.Data{
				Title:    "Sign up",
				Username: form.Username,
				Email:    form.Email,
				Errors:   verrs,
			})
			return
		}
		ac.handleError(w, r, err)
		return
	}

	if err := ac.sessions.Issue(w, user.ID); err != nil {
		ac.handleError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

// LoginForm displays the sign in form.
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, views.PageLogin, &views.Data{
		Title: "Log in",
		Next:  r.URL.Query().Get("next"),
	})
}

// Login checks the credentials and starts a session.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.LoginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	next := r.FormValue("next")

	user, err := ac.userService.Authenticate(form)
	if err != nil {
		data := &views.Data{Title: "Log in", Username: form.Username, Next: next}
		if verrs, ok := validationErrors(err); ok {
			data.Errors = verrs
		} else if errors.Is(err, services.ErrInvalidCredentials) {
			data.FormError = invalidLogin
		} else {
			ac.handleError(w, r, err)
			return
		}
		ac.render(w, r, http.StatusUnprocessableEntity, views.PageLogin, data)
		return
	}

	if err := ac.sessions.Issue(w, user.ID); err != nil {
		ac.handleError(w, r, err)
		return
	}
	log.Log.WithField("user_id", user.ID).Info("user logged in")
	redirect(w, r, safeNext(next))
}

// Logout ends the session.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.sessions.Clear(w)
	redirect(w, r, "/")
}
