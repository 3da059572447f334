package repositories

import (
	"testing"
	"time"

	"blogicum/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo *Repository, username string) *models.User {
	user := &models.User{Username: username}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, repo.Users().Create(user))
	return user
}

func TestPostRepository(t *testing.T) {
	repo := newTestRepository(t)
	posts := repo.Posts()
	author := createUser(t, repo, "author")

	category := &models.Category{Title: "Travel", Slug: "travel", IsPublished: true}
	require.NoError(t, repo.Categories().Create(category))
	location := &models.Location{Name: "Lisbon", IsPublished: true}
	require.NoError(t, repo.Locations().Create(location))

	t.Run("create and get post", func(t *testing.T) {
		post := &models.Post{
			Title:      "Test Post",
			Text:       "Test Content",
			PubDate:    time.Now(),
			AuthorID:   author.ID,
			CategoryID: &category.ID,
			LocationID: &location.ID,
		}

		err := posts.Create(post)
		require.NoError(t, err)
		assert.Greater(t, post.ID, 0)

		retrieved, err := posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, retrieved.Title)
		require.NotNil(t, retrieved.Author)
		assert.Equal(t, "author", retrieved.Author.Username)
		require.NotNil(t, retrieved.Category)
		assert.Equal(t, "travel", retrieved.Category.Slug)
		require.NotNil(t, retrieved.Location)
		assert.Equal(t, "Lisbon", retrieved.Location.Name)
		assert.Zero(t, retrieved.CommentCount)
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := posts.GetByID(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update post", func(t *testing.T) {
		post := &models.Post{Title: "Original", Text: "Original text", PubDate: time.Now(), AuthorID: author.ID}
		require.NoError(t, posts.Create(post))

		post.Title = "Updated Title"
		post.IsPublished = true
		require.NoError(t, posts.Update(post))

		updated, err := posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.True(t, updated.IsPublished)
	})

	t.Run("update missing post", func(t *testing.T) {
		err := posts.Update(&models.Post{ID: 9999, Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("derived fields are not stored", func(t *testing.T) {
		post := &models.Post{Title: "Derived", Text: "Body", PubDate: time.Now(), AuthorID: author.ID}
		require.NoError(t, posts.Create(post))
		post.CommentCount = 42
		post.Author = &models.User{ID: 77, Username: "intruder"}
		require.NoError(t, posts.Update(post))

		stored, err := posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.CommentCount)
		assert.Equal(t, "author", stored.Author.Username)
	})

	t.Run("delete cascades to comments", func(t *testing.T) {
		post := &models.Post{Title: "Cascade", Text: "Body", PubDate: time.Now(), AuthorID: author.ID}
		require.NoError(t, posts.Create(post))

		var commentIDs []int
		for i := 0; i < 3; i++ {
			comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "bye"}
			require.NoError(t, repo.Comments().Create(comment))
			commentIDs = append(commentIDs, comment.ID)
		}

		require.NoError(t, posts.Delete(post.ID))

		_, err := posts.GetByID(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		comments, err := repo.Comments().ListByPost(post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
		for _, id := range commentIDs {
			_, err := repo.Comments().GetByID(id)
			assert.ErrorIs(t, err, ErrNotFound)
		}
	})

	t.Run("delete missing post", func(t *testing.T) {
		assert.ErrorIs(t, posts.Delete(9999), ErrNotFound)
	})
}

func TestPostRepositoryFind(t *testing.T) {
	repo := newTestRepository(t)
	posts := repo.Posts()
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")

	visible := &models.Category{Title: "Visible", Slug: "visible", IsPublished: true}
	hidden := &models.Category{Title: "Hidden", Slug: "hidden", IsPublished: false}
	require.NoError(t, repo.Categories().Create(visible))
	require.NoError(t, repo.Categories().Create(hidden))

	base := time.Now().Add(-24 * time.Hour)
	var created []*models.Post
	for i := 0; i < 12; i++ {
		post := &models.Post{
			Title:       "Post",
			Text:        "Body",
			PubDate:     base.Add(time.Duration(i) * time.Minute),
			IsPublished: true,
			AuthorID:    alice.ID,
		}
		if i%2 == 1 {
			post.AuthorID = bob.ID
			post.CategoryID = &visible.ID
		}
		if i == 11 {
			post.CategoryID = &hidden.ID
		}
		require.NoError(t, posts.Create(post))
		created = append(created, post)
	}

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Comments().Create(&models.Comment{PostID: created[0].ID, AuthorID: bob.ID, Text: "hi"}))
	}

	t.Run("newest first with page size", func(t *testing.T) {
		page, err := posts.Find(PostQuery{Page: 1, PageSize: 5})
		require.NoError(t, err)
		assert.Equal(t, 12, page.Total)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, created[11].ID, page.Items[0].ID)
		for i := 1; i < len(page.Items); i++ {
			assert.False(t, page.Items[i].PubDate.After(page.Items[i-1].PubDate))
		}
	})

	t.Run("filter by author", func(t *testing.T) {
		page, err := posts.Find(PostQuery{AuthorID: alice.ID, Page: 1, PageSize: 50})
		require.NoError(t, err)
		assert.Equal(t, 6, page.Total)
		for _, p := range page.Items {
			assert.Equal(t, alice.ID, p.AuthorID)
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		page, err := posts.Find(PostQuery{CategoryID: visible.ID, Page: 1, PageSize: 50})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
	})

	t.Run("filter sees hydrated category", func(t *testing.T) {
		page, err := posts.Find(PostQuery{
			Filter: func(p *models.Post) bool {
				return p.Category == nil || p.Category.IsPublished
			},
			Page:     1,
			PageSize: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, 11, page.Total)
		for _, p := range page.Items {
			assert.NotEqual(t, created[11].ID, p.ID)
		}
	})

	t.Run("comment count", func(t *testing.T) {
		page, err := posts.Find(PostQuery{AuthorID: alice.ID, Page: 99, PageSize: 50})
		require.NoError(t, err)
		last := page.Items[len(page.Items)-1]
		assert.Equal(t, created[0].ID, last.ID)
		assert.Equal(t, 2, last.CommentCount)
	})

	t.Run("invalid page size", func(t *testing.T) {
		_, err := posts.Find(PostQuery{Page: 1})
		assert.ErrorIs(t, err, ErrInvalidPageSize)
	})
}
