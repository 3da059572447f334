package controllers

import (
	"net/http"

	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/gorilla/mux"
)

// ProfileController serves user profiles
type ProfileController struct {
	base
	postService *services.PostService
	userService *services.UserService
}

func NewProfileController(renderer *views.Renderer, postService *services.PostService, userService *services.UserService) *ProfileController {
	return &ProfileController{
		base:        base{views: renderer},
		postService: postService,
		userService: userService,
	}
}

// Show lists the posts of a user. Owners also see their hidden and
// scheduled posts.
func (pc *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	profile, page, err := pc.postService.ListByProfile(mux.Vars(r)["username"], middleware.CurrentUser(r), pageNumber(r))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{
			"profile": profile,
			"posts":   page,
		})
		return
	}
	pc.render(w, r, http.StatusOK, views.PageProfile, &views.Data{
		Title:   profile.FullName(),
		Profile: profile,
		Page:    page,
	})
}

// Edit displays the profile form of the signed in user
func (pc *ProfileController) Edit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	pc.render(w, r, http.StatusOK, views.PageProfileEdit, &views.Data{
		Title: "Edit profile",
		ProfileForm: &models.ProfileForm{
			Username:  viewer.Username,
			Email:     viewer.Email,
			FirstName: viewer.FirstName,
			LastName:  viewer.LastName,
		},
	})
}

// Update saves the profile form and returns to the profile page
func (pc *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ProfileForm{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
	}
	user, err := pc.userService.UpdateProfile(middleware.CurrentUser(r), form)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			pc.render(w, r, http.StatusUnprocessableEntity, views.PageProfileEdit, &views.Data{
				Title:       "Edit profile",
				ProfileForm: form,
				Errors:      verrs,
			})
			return
		}
		pc.handleError(w, r, err)
		return
	}

	redirect(w, r, profileURL(user.Username))
}
