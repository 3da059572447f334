package models

import "time"

// Post represents a blog post. Author, Category, Location, Comments and
// CommentCount are filled in by the repositories when a post is read and are
// never persisted with it.
type Post struct {
	ID          int       `json:"id" validate:"gte=0"`
	Title       string    `json:"title" validate:"required,max=256"`
	Text        string    `json:"text" validate:"required"`
	PubDate     time.Time `json:"pub_date" validate:"required"`
	IsPublished bool      `json:"is_published"`
	Image       string    `json:"image,omitempty" validate:"max=255"`
	AuthorID    int       `json:"author_id" validate:"required,gt=0"`
	CategoryID  *int      `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	LocationID  *int      `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	CreatedAt   time.Time `json:"created_at"`

	Author       *User      `json:"author,omitempty" validate:"-"`
	Category     *Category  `json:"category,omitempty" validate:"-"`
	Location     *Location  `json:"location,omitempty" validate:"-"`
	Comments     []*Comment `json:"comments,omitempty" validate:"-"`
	CommentCount int        `json:"comment_count" validate:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"post_id" validate:"required,gt=0"`
	AuthorID  int       `json:"author_id" validate:"required,gt=0"`
	Text      string    `json:"text" validate:"required,max=2000"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"author,omitempty" validate:"-"`
}

// Category groups posts under a public slug.
type Category struct {
	ID          int       `json:"id" validate:"gte=0"`
	Title       string    `json:"title" validate:"required,max=256"`
	Description string    `json:"description"`
	Slug        string    `json:"slug" validate:"required,max=64,slug"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is an optional place attached to a post.
type Location struct {
	ID          int       `json:"id" validate:"gte=0"`
	Name        string    `json:"name" validate:"required,max=256"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is a registered author. The username is the public identifier.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,max=150,username"`
	Email        string    `json:"-" validate:"omitempty,email,max=254"`
	FirstName    string    `json:"first_name,omitempty" validate:"max=150"`
	LastName     string    `json:"last_name,omitempty" validate:"max=150"`
	PasswordHash string    `json:"-" validate:"-"`
	DateJoined   time.Time `json:"date_joined"`
}
