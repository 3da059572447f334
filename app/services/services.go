package services

import (
	"blogicum/app/repositories"
)

// Repositories bundles the data access the services depend on.
type Repositories struct {
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository
	Users      repositories.UserRepository
	Categories repositories.CategoryRepository
	Locations  repositories.LocationRepository
}

// NewRepositories wires every service dependency to one badger database.
func NewRepositories(repo *repositories.Repository) Repositories {
	return Repositories{
		Posts:      repo.Posts(),
		Comments:   repo.Comments(),
		Users:      repo.Users(),
		Categories: repo.Categories(),
		Locations:  repo.Locations(),
	}
}
