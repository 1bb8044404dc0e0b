// Package service implements the inventory business rules for
// categories and products.
package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/internal/store"
)

// CategoryService defines the methods for managing categories.
// It abstracts the underlying business logic and data access.
type CategoryService interface {
	// FindAll returns all categories with their product counts.
	FindAll(ctx context.Context) ([]CategoryDto, error)

	// FindByID retrieves a single category by its identifier.
	// Returns ErrCategoryNotFound if no category exists with the given ID.
	FindByID(ctx context.Context, id int64) (*CategoryDto, error)

	// Create adds a new category with a non-empty, unique name.
	// Returns ErrCategoryNameRequired or ErrCategoryNameTaken on rule violations.
	Create(ctx context.Context, category CategoryCreateDto) (*CategoryDto, error)

	// Update renames an existing category, keeping the name unique.
	Update(ctx context.Context, id int64, category CategoryUpdateDto) (*CategoryDto, error)

	// DeleteByID removes a category without associated products.
	// Returns ErrCategoryHasProducts while any product references it.
	DeleteByID(ctx context.Context, id int64) error
}

// CategoryDto represents the data transfer object for a category.
type CategoryDto struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

// CategoryCreateDto represents the data transfer object for creating a new category.
type CategoryCreateDto struct {
	Name string `json:"name" validate:"max=100"`
}

// CategoryUpdateDto represents the data transfer object for renaming a category.
type CategoryUpdateDto struct {
	Name string `json:"name" validate:"max=100"`
}

// CategorySvc implements CategoryService on top of a CategoryStore.
type CategorySvc struct {
	repository store.CategoryStore
}

// NewCategoryService creates a new CategoryService with the provided repository.
func NewCategoryService(repo store.CategoryStore) *CategorySvc {
	return &CategorySvc{repository: repo}
}

// FindAll retrieves all categories and returns them as CategoryDtos.
func (s *CategorySvc) FindAll(ctx context.Context) ([]CategoryDto, error) {
	categories, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	categoryDtos := make([]CategoryDto, len(categories))
	for i, item := range categories {
		categoryDtos[i] = *toCategoryDto(&item)
	}
	return categoryDtos, nil
}

// FindByID retrieves a category by its ID and returns it as a CategoryDto.
// Returns ErrCategoryNotFound if no category exists with the given ID.
func (s *CategorySvc) FindByID(ctx context.Context, id int64) (*CategoryDto, error) {
	category, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category by ID %d: %w", id, err)
	}
	return toCategoryDto(category), nil
}

// Create validates and persists a new category with the trimmed name.
func (s *CategorySvc) Create(ctx context.Context, category CategoryCreateDto) (*CategoryDto, error) {
	name := strings.TrimSpace(category.Name)
	if name == "" {
		return nil, apperrors.ErrCategoryNameRequired
	}

	taken, err := s.repository.NameExists(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrCategoryNameTaken
	}

	created, err := s.repository.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return toCategoryDto(created), nil
}

// Update renames a category. The new trimmed name must be non-empty and
// not held by any other category.
func (s *CategorySvc) Update(ctx context.Context, id int64, category CategoryUpdateDto) (*CategoryDto, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(category.Name)
	if name == "" {
		return nil, apperrors.ErrCategoryNameRequired
	}

	taken, err := s.repository.NameExists(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrCategoryNameTaken
	}

	updated, err := s.repository.UpdateName(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("failed to update category with ID %d: %w", id, err)
	}
	return toCategoryDto(updated), nil
}

// DeleteByID removes a category. The delete is refused while any product
// still references the category; the storage-level cascade never fires
// through this path.
func (s *CategorySvc) DeleteByID(ctx context.Context, id int64) error {
	category, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if category.ProductCount > 0 {
		return apperrors.ErrCategoryHasProducts
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category with ID %d: %w", id, err)
	}
	return nil
}

// toCategoryDto converts a store.Category to a CategoryDto.
func toCategoryDto(category *store.Category) *CategoryDto {
	return &CategoryDto{
		ID:           category.ID,
		Name:         category.Name,
		ProductCount: category.ProductCount,
	}
}
