package services

import (
	"testing"

	"blogicum/app/models"
	"blogicum/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	store := mock.NewStore()
	service := NewUserService(newMockRepositories(store))

	registration := &models.RegistrationForm{
		Username:  "writer",
		Email:     "writer@example.com",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}

	t.Run("register", func(t *testing.T) {
		user, err := service.Register(registration)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	})

	t.Run("register taken username", func(t *testing.T) {
		_, err := service.Register(registration)
		verrs, ok := err.(models.ValidationErrors)
		require.True(t, ok)
		assert.Equal(t, usernameTaken, verrs["username"])
	})

	t.Run("register mismatched passwords", func(t *testing.T) {
		_, err := service.Register(&models.RegistrationForm{Username: "x", Password1: "password1", Password2: "password2"})
		verrs, ok := err.(models.ValidationErrors)
		require.True(t, ok)
		assert.Contains(t, verrs, "password2")
	})

	t.Run("authenticate", func(t *testing.T) {
		user, err := service.Authenticate(&models.LoginForm{Username: "writer", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "writer", user.Username)

		_, err = service.Authenticate(&models.LoginForm{Username: "writer", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = service.Authenticate(&models.LoginForm{Username: "nobody", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("update profile", func(t *testing.T) {
		viewer, err := store.Users().GetByUsername("writer")
		require.NoError(t, err)

		updated, err := service.UpdateProfile(viewer, &models.ProfileForm{Username: "novelist", FirstName: "Ada", LastName: "Lovelace"})
		require.NoError(t, err)
		assert.Equal(t, "novelist", updated.Username)
		assert.Equal(t, "Ada Lovelace", updated.FullName())

		_, err = service.Authenticate(&models.LoginForm{Username: "novelist", Password: "s3cret-pass"})
		assert.NoError(t, err, "password survives a profile edit")
	})

	t.Run("update profile onto taken username", func(t *testing.T) {
		_, err := service.Register(&models.RegistrationForm{Username: "poet", Password1: "password1", Password2: "password1"})
		require.NoError(t, err)
		viewer, err := store.Users().GetByUsername("novelist")
		require.NoError(t, err)

		_, err = service.UpdateProfile(viewer, &models.ProfileForm{Username: "poet"})
		assert.IsType(t, models.ValidationErrors{}, err)
	})

	t.Run("anonymous profile update", func(t *testing.T) {
		_, err := service.UpdateProfile(nil, &models.ProfileForm{Username: "x"})
		assert.ErrorIs(t, err, ErrLoginRequired)
	})
}

func TestCategoryService(t *testing.T) {
	service := NewCategoryService(newMockRepositories(mock.NewStore()))

	require.NoError(t, service.CreateCategory(&models.Category{Title: "Travel", Slug: "travel"}))
	assert.IsType(t, models.ValidationErrors{}, service.CreateCategory(&models.Category{Title: "Again", Slug: "travel"}))
	assert.IsType(t, models.ValidationErrors{}, service.CreateCategory(&models.Category{Title: "Bad", Slug: "not a slug"}))

	category, err := service.SetCategoryPublished("travel", true)
	require.NoError(t, err)
	assert.True(t, category.IsPublished)

	categories, err := service.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].IsPublished)

	require.NoError(t, service.CreateLocation(&models.Location{Name: "Porto", IsPublished: true}))
	assert.Error(t, service.CreateLocation(&models.Location{}))
	locations, err := service.ListLocations()
	require.NoError(t, err)
	assert.Len(t, locations, 1)
}
