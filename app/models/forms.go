package models

import "time"

// PostForm carries the user editable fields of a post. The author is never
// part of the form.
type PostForm struct {
	Title       string    `json:"title" validate:"required,max=256"`
	Text        string    `json:"text" validate:"required"`
	PubDate     time.Time `json:"pub_date"`
	IsPublished bool      `json:"is_published"`
	CategoryID  *int      `json:"category" validate:"omitempty,gt=0"`
	LocationID  *int      `json:"location" validate:"omitempty,gt=0"`
}

func (f *PostForm) Validate() error {
	return validateStruct(f)
}

// Apply copies the form values onto post.
func (f *PostForm) Apply(post *Post) {
	post.Title = f.Title
	post.Text = f.Text
	post.PubDate = f.PubDate
	post.IsPublished = f.IsPublished
	post.CategoryID = f.CategoryID
	post.LocationID = f.LocationID
}

// PostFormFrom prefills a form from an existing post.
func PostFormFrom(post *Post) *PostForm {
	return &PostForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate,
		IsPublished: post.IsPublished,
		CategoryID:  post.CategoryID,
		LocationID:  post.LocationID,
	}
}

// CommentForm only exposes the text; post and author come from the request.
type CommentForm struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (f *CommentForm) Validate() error {
	return validateStruct(f)
}

type RegistrationForm struct {
	Username  string `json:"username" validate:"required,max=150,username,notreserved"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password1 string `json:"password1" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegistrationForm) Validate() error {
	return validateStruct(f)
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) Validate() error {
	return validateStruct(f)
}

// ProfileForm holds the fields a user may change on their own profile.
type ProfileForm struct {
	Username  string `json:"username" validate:"required,max=150,username,notreserved"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

func (f *ProfileForm) Validate() error {
	return validateStruct(f)
}

func (f *ProfileForm) Apply(user *User) {
	user.Username = f.Username
	user.Email = f.Email
	user.FirstName = f.FirstName
	user.LastName = f.LastName
}
