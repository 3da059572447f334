package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"blogicum/app/log"
	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/repositories"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var errInvalidID = errors.New("invalid id")

// base carries the response helpers shared by every controller.
type base struct {
	views *views.Renderer
}

// render writes page with status, filling in the request specific fields.
func (c *base) render(w http.ResponseWriter, r *http.Request, status int, page string, data *views.Data) {
	if data == nil {
		data = &views.Data{}
	}
	data.Path = r.URL.Path
	if data.Viewer == nil {
		data.Viewer = middleware.CurrentUser(r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.views.Render(w, page, data); err != nil {
		log.Log.WithError(err).WithField("page", page).Error("template error")
	}
}

func (c *base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (c *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.WantsJSON(r) {
		c.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	c.render(w, r, status, views.PageError, &views.Data{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}

// NotFound answers requests that match no route.
func (c *base) NotFound(w http.ResponseWriter, r *http.Request) {
	c.sendError(w, r, "Page not found", http.StatusNotFound)
}

// handleError maps service errors onto responses.
func (c *base) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, errInvalidID):
		c.NotFound(w, r)
	case errors.Is(err, services.ErrLoginRequired):
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
	default:
		log.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		c.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
	}
}

// validationErrors extracts field errors from err.
func validationErrors(err error) (models.ValidationErrors, bool) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// pathID parses the integer route variable name.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		return 0, errors.Wrapf(errInvalidID, "%s=%q", name, mux.Vars(r)[name])
	}
	return id, nil
}

// pageNumber reads the page query parameter. Anything that is not a number
// selects the first page.
func pageNumber(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}

func postURL(id int) string {
	return "/posts/" + strconv.Itoa(id)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
