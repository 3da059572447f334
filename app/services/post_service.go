package services

import (
	"time"

	"blogicum/app/log"
	"blogicum/app/models"
	"blogicum/app/repositories"
	"blogicum/app/visibility"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PostService handles business logic for blog posts
type PostService struct {
	repos    Repositories
	pageSize int
	now      func() time.Time
}

// NewPostService creates a new PostService listing pageSize posts per page
func NewPostService(repos Repositories, pageSize int) *PostService {
	return &PostService{
		repos:    repos,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// ListPublished returns a page of the home listing.
func (s *PostService) ListPublished(page int) (*repositories.Page, error) {
	return s.repos.Posts.Find(repositories.PostQuery{
		Filter:   visibility.Public(s.now()),
		Page:     page,
		PageSize: s.pageSize,
	})
}

// ListByCategory returns the category with the given slug and a page of its
// public posts. An unpublished category is reported as not found.
func (s *PostService) ListByCategory(slug string, page int) (*models.Category, *repositories.Page, error) {
	category, err := s.repos.Categories.GetBySlug(slug)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "category %q", slug)
	}
	if !category.IsPublished {
		return nil, nil, errors.Wrapf(repositories.ErrNotFound, "category %q is hidden", slug)
	}

	result, err := s.repos.Posts.Find(repositories.PostQuery{
		CategoryID: category.ID,
		Filter:     visibility.Public(s.now()),
		Page:       page,
		PageSize:   s.pageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return category, result, nil
}

// ListByProfile returns the user with the given username and a page of the
// posts viewer may see on that profile.
func (s *PostService) ListByProfile(username string, viewer *models.User, page int) (*models.User, *repositories.Page, error) {
	owner, err := s.repos.Users.GetByUsername(username)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "user %q", username)
	}

	result, err := s.repos.Posts.Find(repositories.PostQuery{
		AuthorID: owner.ID,
		Filter:   visibility.ProfileFilter(owner, viewer, s.now()),
		Page:     page,
		PageSize: s.pageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return owner, result, nil
}

// GetForViewer retrieves a post with its comments, oldest first. Posts the
// viewer may not see are reported as not found.
func (s *PostService) GetForViewer(id int, viewer *models.User) (*models.Post, error) {
	post, err := s.repos.Posts.GetByID(id)
	if err != nil {
		return nil, errors.Wrapf(err, "post %d", id)
	}
	if !visibility.CanView(post, viewer, s.now()) {
		return nil, errors.Wrapf(repositories.ErrNotFound, "post %d is not visible", id)
	}

	comments, err := s.repos.Comments.ListByPost(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get comments")
	}
	post.Comments = comments
	return post, nil
}

// Create validates form and stores a new post written by viewer.
func (s *PostService) Create(viewer *models.User, form *models.PostForm, image string) (*models.Post, error) {
	if viewer == nil {
		return nil, ErrLoginRequired
	}
	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: viewer.ID, Image: image}
	form.Apply(post)
	if post.PubDate.IsZero() {
		post.PubDate = s.now()
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.repos.Posts.Create(post); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	log.Log.WithFields(logrus.Fields{
		"post_id":   post.ID,
		"author_id": viewer.ID,
	}).Info("post created")
	return post, nil
}

// AuthorizeEdit loads post id and checks that viewer may change it.
func (s *PostService) AuthorizeEdit(viewer *models.User, id int) (*models.Post, visibility.MutationResult, error) {
	post, err := s.repos.Posts.GetByID(id)
	if err != nil {
		return nil, visibility.MutationResult{}, errors.Wrapf(err, "post %d", id)
	}
	return post, visibility.AuthorizeMutation(post, viewer), nil
}

// Update applies form to post id. When viewer is not the author nothing is
// validated or written and the result carries the redirect target. An empty
// image keeps the current one.
func (s *PostService) Update(viewer *models.User, id int, form *models.PostForm, image string) (*models.Post, visibility.MutationResult, error) {
	post, result, err := s.AuthorizeEdit(viewer, id)
	if err != nil || !result.Allowed {
		return post, result, err
	}

	if err := s.validateForm(form); err != nil {
		return post, result, err
	}
	form.Apply(post)
	if post.PubDate.IsZero() {
		post.PubDate = s.now()
	}
	if image != "" {
		post.Image = image
	}
	if err := post.Validate(); err != nil {
		return post, result, err
	}

	if err := s.repos.Posts.Update(post); err != nil {
		return post, result, errors.Wrapf(err, "failed to update post %d", id)
	}
	log.Log.WithField("post_id", id).Info("post updated")
	return post, result, nil
}

// Delete removes post id and its comments when viewer is the author.
func (s *PostService) Delete(viewer *models.User, id int) (visibility.MutationResult, error) {
	_, result, err := s.AuthorizeEdit(viewer, id)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.repos.Posts.Delete(id); err != nil {
		return result, errors.Wrapf(err, "failed to delete post %d", id)
	}
	log.Log.WithField("post_id", id).Info("post deleted")
	return result, nil
}

// Choices returns the categories and locations a post form may reference.
func (s *PostService) Choices() ([]*models.Category, []*models.Location, error) {
	categories, err := s.repos.Categories.List()
	if err != nil {
		return nil, nil, err
	}
	locations, err := s.repos.Locations.List()
	if err != nil {
		return nil, nil, err
	}
	return categories, locations, nil
}

// validateForm checks the form fields and that the referenced category and
// location exist.
func (s *PostService) validateForm(form *models.PostForm) error {
	verrs := models.ValidationErrors{}
	if err := form.Validate(); err != nil {
		fieldErrs, ok := err.(models.ValidationErrors)
		if !ok {
			return err
		}
		for field, msg := range fieldErrs {
			verrs.Add(field, msg)
		}
	}

	if form.CategoryID != nil {
		if _, err := s.repos.Categories.GetByID(*form.CategoryID); errors.Is(err, repositories.ErrNotFound) {
			verrs.Add("category", "Select a valid choice.")
		} else if err != nil {
			return err
		}
	}
	if form.LocationID != nil {
		if _, err := s.repos.Locations.GetByID(*form.LocationID); errors.Is(err, repositories.ErrNotFound) {
			verrs.Add("location", "Select a valid choice.")
		} else if err != nil {
			return err
		}
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}
