package controllers

import (
	"net/http"

	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/services"
	"blogicum/app/views"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(renderer *views.Renderer, commentService *services.CommentService, postService *services.PostService) *CommentController {
	return &CommentController{
		base:           base{views: renderer},
		commentService: commentService,
		postService:    postService,
	}
}

func commentIDs(r *http.Request) (postID, commentID int, err error) {
	if postID, err = pathID(r, "id"); err != nil {
		return 0, 0, err
	}
	if commentID, err = pathID(r, "comment_id"); err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}

// Create adds a comment to a post. The author is always the signed in user.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	postID, err := pathID(r, "id")
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.CommentForm{Text: r.FormValue("text")}
	if _, err := cc.commentService.Create(viewer, postID, form); err != nil {
		if verrs, ok := validationErrors(err); ok {
			cc.renderDetail(w, r, postID, form, verrs)
			return
		}
		cc.handleError(w, r, err)
		return
	}

	redirect(w, r, postURL(postID))
}

// Edit displays the comment form to the comment author.
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	comment, result, err := cc.commentService.AuthorizeEdit(middleware.CurrentUser(r), postID, commentID)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	cc.render(w, r, http.StatusOK, views.PageCommentForm, &views.Data{
		Title:       "Edit comment",
		Comment:     comment,
		CommentForm: &models.CommentForm{Text: comment.Text},
	})
}

// Update saves the edited comment text.
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.CommentForm{Text: r.FormValue("text")}
	comment, result, err := cc.commentService.Update(middleware.CurrentUser(r), postID, commentID, form)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			cc.render(w, r, http.StatusUnprocessableEntity, views.PageCommentForm, &views.Data{
				Title:       "Edit comment",
				Comment:     comment,
				CommentForm: form,
				Errors:      verrs,
			})
			return
		}
		cc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}

	redirect(w, r, postURL(comment.PostID))
}

// ConfirmDelete displays the delete confirmation to the comment author.
func (cc *CommentController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	comment, result, err := cc.commentService.AuthorizeEdit(middleware.CurrentUser(r), postID, commentID)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}
	cc.render(w, r, http.StatusOK, views.PageCommentDelete, &views.Data{Title: "Delete comment", Comment: comment})
}

// Delete removes the comment.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	result, err := cc.commentService.Delete(middleware.CurrentUser(r), postID, commentID)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	if !result.Allowed {
		redirect(w, r, postURL(result.RedirectPostID))
		return
	}

	redirect(w, r, postURL(postID))
}

// renderDetail shows the post again with the rejected comment form.
func (cc *CommentController) renderDetail(w http.ResponseWriter, r *http.Request, postID int, form *models.CommentForm, verrs models.ValidationErrors) {
	post, err := cc.postService.GetForViewer(postID, middleware.CurrentUser(r))
	if err != nil {
		cc.handleError(w, r, err)
		return
	}
	cc.render(w, r, http.StatusUnprocessableEntity, views.PageDetail, &views.Data{
		Title:       post.Title,
		Post:        post,
		CommentForm: form,
		Errors:      verrs,
	})
}
