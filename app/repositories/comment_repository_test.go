package repositories

import (
	"testing"
	"time"

	"blogicum/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	repo := newTestRepository(t)
	author := createUser(t, repo, "commenter")

	post := &models.Post{Title: "Test Post", Text: "Test Content", PubDate: time.Now(), AuthorID: author.ID}
	require.NoError(t, repo.Posts().Create(post))
	other := &models.Post{Title: "Other Post", Text: "Other Content", PubDate: time.Now(), AuthorID: author.ID}
	require.NoError(t, repo.Posts().Create(other))

	comments := repo.Comments()

	t.Run("create and get comment", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "Test Comment Content"}

		err := comments.Create(comment)
		require.NoError(t, err)
		assert.Greater(t, comment.ID, 0)
		assert.False(t, comment.CreatedAt.IsZero())

		retrieved, err := comments.GetByID(comment.ID)
		require.NoError(t, err)
		assert.Equal(t, comment.Text, retrieved.Text)
		assert.Equal(t, comment.PostID, retrieved.PostID)
		require.NotNil(t, retrieved.Author)
		assert.Equal(t, "commenter", retrieved.Author.Username)
	})

	t.Run("create on missing post", func(t *testing.T) {
		err := comments.Create(&models.Comment{PostID: 9999, AuthorID: author.ID, Text: "lost"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update only changes text", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "Original content"}
		require.NoError(t, comments.Create(comment))

		require.NoError(t, comments.Update(&models.Comment{ID: comment.ID, PostID: other.ID, AuthorID: 999, Text: "Updated content"}))

		updated, err := comments.GetByID(comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated content", updated.Text)
		assert.Equal(t, post.ID, updated.PostID)
		assert.Equal(t, author.ID, updated.AuthorID)
	})

	t.Run("delete comment", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "This comment will be deleted"}
		require.NoError(t, comments.Create(comment))

		require.NoError(t, comments.Delete(comment.ID))

		_, err := comments.GetByID(comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, comments.Delete(comment.ID), ErrNotFound)
	})

	t.Run("list comments by post", func(t *testing.T) {
		require.NoError(t, comments.Create(&models.Comment{PostID: other.ID, AuthorID: author.ID, Text: "elsewhere"}))

		list, err := comments.ListByPost(post.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		for i, c := range list {
			assert.Equal(t, post.ID, c.PostID)
			if i > 0 {
				assert.False(t, c.CreatedAt.Before(list[i-1].CreatedAt))
			}
		}
	})
}
