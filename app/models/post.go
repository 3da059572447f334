package models

import "time"

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}

	if p.PubDate.IsZero() {
		return ValidationErrors{"pub_date": "This field is required."}
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.PubDate.IsZero() {
		p.PubDate = now
	}
}

// OwnerID returns the id of the user allowed to change the post.
func (p *Post) OwnerID() int {
	return p.AuthorID
}

// DetailPostID returns the post whose detail page represents this entity.
func (p *Post) DetailPostID() int {
	return p.ID
}

// Record returns a copy of the post without the fields the repositories
// derive on read.
func (p *Post) Record() *Post {
	record := *p
	record.Author = nil
	record.Category = nil
	record.Location = nil
	record.Comments = nil
	record.CommentCount = 0
	return &record
}
