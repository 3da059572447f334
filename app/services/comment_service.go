package services

import (
	"blogicum/app/log"
	"blogicum/app/models"
	"blogicum/app/repositories"
	"blogicum/app/visibility"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(repos Repositories) *CommentService {
	return &CommentService{
		commentRepo: repos.Comments,
		postRepo:    repos.Posts,
	}
}

// Create adds a comment by viewer to post postID. The author is always the
// viewer; the post must exist.
func (s *CommentService) Create(viewer *models.User, postID int, form *models.CommentForm) (*models.Comment, error) {
	if viewer == nil {
		return nil, ErrLoginRequired
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, errors.Wrapf(err, "post %d", postID)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	comment := &models.Comment{AuthorID: viewer.ID, Text: form.Text}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.Wrap(err, "failed to create comment")
	}

	log.Log.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"post_id":    postID,
		"author_id":  viewer.ID,
	}).Info("comment created")
	return comment, nil
}

// Get retrieves comment commentID of post postID. A comment addressed
// through another post is not found.
func (s *CommentService) Get(postID, commentID int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, errors.Wrapf(err, "comment %d", commentID)
	}
	if comment.PostID != postID {
		return nil, errors.Wrapf(repositories.ErrNotFound, "comment %d is not on post %d", commentID, postID)
	}
	return comment, nil
}

// AuthorizeEdit loads the comment and checks that viewer may change it.
func (s *CommentService) AuthorizeEdit(viewer *models.User, postID, commentID int) (*models.Comment, visibility.MutationResult, error) {
	comment, err := s.Get(postID, commentID)
	if err != nil {
		return nil, visibility.MutationResult{}, err
	}
	return comment, visibility.AuthorizeMutation(comment, viewer), nil
}

// Update replaces the comment text when viewer is its author.
func (s *CommentService) Update(viewer *models.User, postID, commentID int, form *models.CommentForm) (*models.Comment, visibility.MutationResult, error) {
	comment, result, err := s.AuthorizeEdit(viewer, postID, commentID)
	if err != nil || !result.Allowed {
		return comment, result, err
	}

	if err := form.Validate(); err != nil {
		return comment, result, err
	}
	comment.Text = form.Text
	if err := comment.Validate(); err != nil {
		return comment, result, err
	}
	if err := s.commentRepo.Update(comment); err != nil {
		return comment, result, errors.Wrapf(err, "failed to update comment %d", commentID)
	}
	return comment, result, nil
}

// Delete removes the comment when viewer is its author.
func (s *CommentService) Delete(viewer *models.User, postID, commentID int) (visibility.MutationResult, error) {
	_, result, err := s.AuthorizeEdit(viewer, postID, commentID)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return result, errors.Wrapf(err, "failed to delete comment %d", commentID)
	}
	log.Log.WithField("comment_id", commentID).Info("comment deleted")
	return result, nil
}
