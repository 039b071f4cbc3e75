package services

import (
	"context"
	"fmt"

	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/repository"
	"github.com/wisata/backend/pkg/validation"
)

// CategoryService manages the category collaborator: a flat list used to
// populate the admin form and to resolve names on object reads.
type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrValidation)
	}

	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

// Delete is lenient like object deletes. Objects still referencing the
// category keep their category_id and read back with a nil category_name.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	_, err := s.categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
