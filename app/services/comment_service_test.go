package services

import (
	"testing"

	"blogicum/app/models"
	"blogicum/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	f := newFixture(t)
	post := f.addPost(t, &models.Post{IsPublished: true})
	other := f.addPost(t, &models.Post{IsPublished: true})

	var commentID int

	t.Run("create comment", func(t *testing.T) {
		comment, err := f.comments.Create(f.reader, post.ID, &models.CommentForm{Text: "Test Comment Content"})
		require.NoError(t, err)
		assert.NotZero(t, comment.ID)
		assert.Equal(t, f.reader.ID, comment.AuthorID)
		assert.Equal(t, post.ID, comment.PostID)
		assert.False(t, comment.CreatedAt.IsZero())
		commentID = comment.ID
	})

	t.Run("create on missing post", func(t *testing.T) {
		_, err := f.comments.Create(f.reader, 999, &models.CommentForm{Text: "x"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("create empty comment", func(t *testing.T) {
		_, err := f.comments.Create(f.reader, post.ID, &models.CommentForm{})
		assert.IsType(t, models.ValidationErrors{}, err)
	})

	t.Run("unsaved author is rejected before writing", func(t *testing.T) {
		writes := f.store.Writes
		_, err := f.comments.Create(&models.User{Username: "ghost"}, post.ID, &models.CommentForm{Text: "boo"})
		require.IsType(t, models.ValidationErrors{}, err)
		assert.Contains(t, err.(models.ValidationErrors), "author_id")
		assert.Equal(t, writes, f.store.Writes)
	})

	t.Run("anonymous create", func(t *testing.T) {
		_, err := f.comments.Create(nil, post.ID, &models.CommentForm{Text: "x"})
		assert.ErrorIs(t, err, ErrLoginRequired)
	})

	t.Run("get through wrong post", func(t *testing.T) {
		_, err := f.comments.Get(other.ID, commentID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("non-author update redirects to the post", func(t *testing.T) {
		writes := f.store.Writes
		_, result, err := f.comments.Update(f.author, post.ID, commentID, &models.CommentForm{Text: "changed"})
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, post.ID, result.RedirectPostID)
		assert.Equal(t, writes, f.store.Writes)
	})

	t.Run("author update", func(t *testing.T) {
		_, result, err := f.comments.Update(f.reader, post.ID, commentID, &models.CommentForm{Text: "Updated content"})
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		updated, err := f.comments.Get(post.ID, commentID)
		require.NoError(t, err)
		assert.Equal(t, "Updated content", updated.Text)
		assert.Equal(t, f.reader.ID, updated.AuthorID)
	})

	t.Run("non-author delete", func(t *testing.T) {
		result, err := f.comments.Delete(nil, post.ID, commentID)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, post.ID, result.RedirectPostID)
		_, err = f.comments.Get(post.ID, commentID)
		assert.NoError(t, err)
	})

	t.Run("author delete", func(t *testing.T) {
		result, err := f.comments.Delete(f.reader, post.ID, commentID)
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		comments, err := f.store.Comments().ListByPost(post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
