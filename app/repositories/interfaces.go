package repositories

import "blogicum/app/models"

// PostRepository defines the interface for post data access. Posts returned
// by GetByID and Find carry their author, category, location and comment
// count.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	Find(query PostQuery) (*Page, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id int) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	List() ([]*models.Category, error)
	Update(category *models.Category) error
}

// LocationRepository defines the interface for location data access
type LocationRepository interface {
	Create(location *models.Location) error
	GetByID(id int) (*models.Location, error)
	List() ([]*models.Location, error)
	Update(location *models.Location) error
}
