package controllers

import (
	"net/http"

	"blogicum/app/log"
	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/pkg/errors"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
	media       *services.MediaStore
}

// NewPostController creates a new PostController
func NewPostController(renderer *views.Renderer, postService *services.PostService, media *services.MediaStore) *PostController {
	return &PostController{
		base:        base{views: renderer},
		postService: postService,
		media:       media,
	}
}

// Index handles the home page listing
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.postService.ListPublished(pageNumber(r))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, page)
		return
	}
	pc.render(w, r, http.StatusOK, views.PageIndex, &views.Data{Page: page})
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	post, err := pc.postService.GetForViewer(id, middleware.CurrentUser(r))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.render(w, r, http.StatusOK, views.PageDetail, &views.Data{
		Title:       post.Title,
		Post:        post,
		CommentForm: &models.CommentForm{},
	})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.renderForm(w, r, http.StatusOK, "New post", &models.PostForm{}, nil)
}

// Create handles creating a new post. The author is the signed in user.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	if err := parseForm(r); err != nil {
		pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form, verrs := postFormFromRequest(r)
	if len(verrs) > 0 {
		pc.renderForm(w, r, http.StatusUnprocessableEntity, "New post", form, verrs)
		return
	}

	image, err := saveUpload(r, pc.media)
	if err != nil {
		pc.uploadFailed(w, r, "New post", form, err)
		return
	}

	if _, err := pc.postService.Create(viewer, form, image); err != nil {
		pc.media.Remove(image)
		if verrs, ok := validationErrors(err); ok {
			pc.renderForm(w, r, http.StatusUnprocessableEntity, "New post", form, verrs)
			return
		}
		pc.handleError(w, r, err)
		return
	}

	redirect(w, r, profileURL(viewer.Username))
}

// Edit displays the edit form to the author. Everyone else is sent back to
// the post.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	post, result, err := pc.postService.AuthorizeEdit(middleware.CurrentUser(r), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	pc.renderForm(w, r, http.StatusOK, "Edit post", models.PostFormFrom(post), nil)
}

// Update handles the edit form. Ownership is checked before the form or the
// upload are touched.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	current, result, err := pc.postService.AuthorizeEdit(viewer, id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}

	if err := parseForm(r); err != nil {
		pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	form, verrs := postFormFromRequest(r)
	if len(verrs) > 0 {
		pc.renderForm(w, r, http.StatusUnprocessableEntity, "Edit post", form, verrs)
		return
	}

	image, err := saveUpload(r, pc.media)
	if err != nil {
		pc.uploadFailed(w, r, "Edit post", form, err)
		return
	}

	post, result, err := pc.postService.Update(viewer, id, form, image)
	if err != nil || !result.Allowed {
		pc.media.Remove(image)
	}
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			pc.renderForm(w, r, http.StatusUnprocessableEntity, "Edit post", form, verrs)
			return
		}
		pc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	if image != "" && current.Image != "" {
		pc.media.Remove(current.Image)
	}

	redirect(w, r, postURL(post.ID))
}

// ConfirmDelete displays the delete confirmation to the author.
func (pc *PostController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	post, result, err := pc.postService.AuthorizeEdit(middleware.CurrentUser(r), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	pc.render(w, r, http.StatusOK, views.PagePostDelete, &views.Data{Title: "Delete post", Post: post})
}

// Delete handles deleting a post and its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	post, result, err := pc.postService.AuthorizeEdit(viewer, id)
	if err == nil && result.Allowed {
		result, err = pc.postService.Delete(viewer, id)
	}
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	if err := pc.media.Remove(post.Image); err != nil {
		log.Log.WithError(err).WithField("image", post.Image).Warn("failed to remove image")
	}

	redirect(w, r, "/")
}

func (pc *PostController) uploadFailed(w http.ResponseWriter, r *http.Request, title string, form *models.PostForm, err error) {
	if errors.Is(err, services.ErrUnsupportedImage) {
		pc.renderForm(w, r, http.StatusUnprocessableEntity, title, form, models.ValidationErrors{
			"image": "Upload a valid image.",
		})
		return
	}
	pc.handleError(w, r, err)
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, form *models.PostForm, verrs models.ValidationErrors) {
	categories, locations, err := pc.postService.Choices()
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, status, views.PagePostForm, &views.Data{
		Title:      title,
		PostForm:   form,
		Errors:     verrs,
		Categories: categories,
		Locations:  locations,
	})
}
