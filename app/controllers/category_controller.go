package controllers

import (
	"net/http"

	"blogicum/app/middleware"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/gorilla/mux"
)

// CategoryController serves the per category listings
type CategoryController struct {
	base
	postService *services.PostService
}

func NewCategoryController(renderer *views.Renderer, postService *services.PostService) *CategoryController {
	return &CategoryController{
		base:        base{views: renderer},
		postService: postService,
	}
}

// Show lists the public posts of a published category.
func (cc *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	category, page, err := cc.postService.ListByCategory(mux.Vars(r)["slug"], pageNumber(r))
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		cc.sendJSON(w, http.StatusOK, map[string]interface{}{
			"category": category,
			"posts":    page,
		})
		return
	}
	cc.render(w, r, http.StatusOK, views.PageCategory, &views.Data{
		Title:    category.Title,
		Category: category,
		Page:     page,
	})
}
