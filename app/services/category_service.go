package services

import (
	"blogicum/app/models"
	"blogicum/app/repositories"

	"github.com/pkg/errors"
)

// CategoryService manages categories and locations. Both are maintained by
// the operator through the command line.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	locationRepo repositories.LocationRepository
}

func NewCategoryService(repos Repositories) *CategoryService {
	return &CategoryService{
		categoryRepo: repos.Categories,
		locationRepo: repos.Locations,
	}
}

// CreateCategory validates and stores a category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.ValidationErrors{"slug": "Category with this slug already exists."}
		}
		return err
	}
	return nil
}

func (s *CategoryService) ListCategories() ([]*models.Category, error) {
	return s.categoryRepo.List()
}

// SetCategoryPublished publishes or hides the category with the given slug.
func (s *CategoryService) SetCategoryPublished(slug string, published bool) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, errors.Wrapf(err, "category %q", slug)
	}
	category.IsPublished = published
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateLocation validates and stores a location.
func (s *CategoryService) CreateLocation(location *models.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	return s.locationRepo.Create(location)
}

func (s *CategoryService) ListLocations() ([]*models.Location, error) {
	return s.locationRepo.List()
}
