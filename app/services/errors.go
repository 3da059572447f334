package services

import "github.com/pkg/errors"

var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrLoginRequired is returned when an operation needs a signed in user.
	ErrLoginRequired = errors.New("login required")

	// ErrUnsupportedImage is returned for uploads that are not images.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
