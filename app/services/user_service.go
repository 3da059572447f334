package services

import (
	"blogicum/app/log"
	"blogicum/app/models"
	"blogicum/app/repositories"

	"github.com/pkg/errors"
)

const usernameTaken = "A user with that username already exists."

// UserService handles accounts and profiles
type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(repos Repositories) *UserService {
	return &UserService{userRepo: repos.Users}
}

// Register creates an account from form. A taken username is reported as a
// validation error on the username field.
func (s *UserService) Register(form *models.RegistrationForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{Username: form.Username, Email: form.Email}
	if err := user.SetPassword(form.Password1); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, models.ValidationErrors{"username": usernameTaken}
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	log.Log.WithField("username", user.Username).Info("user registered")
	return user, nil
}

// Authenticate returns the user matching the credentials of form.
func (s *UserService) Authenticate(form *models.LoginForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(form.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(form.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile applies form to the viewer's own account.
func (s *UserService) UpdateProfile(viewer *models.User, form *models.ProfileForm) (*models.User, error) {
	if viewer == nil {
		return nil, ErrLoginRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(viewer.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "user %d", viewer.ID)
	}
	form.Apply(user)
	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, models.ValidationErrors{"username": usernameTaken}
		}
		return nil, errors.Wrap(err, "failed to update profile")
	}
	return user, nil
}
