package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validateStruct(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.PostID = post.ID
	return nil
}

func (c *Comment) OwnerID() int {
	return c.AuthorID
}

// DetailPostID returns the post the comment is shown under.
func (c *Comment) DetailPostID() int {
	return c.PostID
}

// Record returns a copy of the comment without its hydrated author.
func (c *Comment) Record() *Comment {
	record := *c
	record.Author = nil
	return &record
}
