// Package store provides the storage interfaces and row types for
// categories and products.
package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Category is a category row. ProductCount is derived from the
// relationship to products, not stored.
type Category struct {
	ID           int64
	Name         string
	ProductCount int64
}

// Product is a product row joined with its category name.
type Product struct {
	ID           int64
	Name         string
	Description  *string
	Price        decimal.Decimal
	Stock        int64
	CategoryID   int64
	CategoryName string
}

// CreateProductParams holds the column values for a new product.
type CreateProductParams struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  int64
}

// UpdateProductParams holds the full set of column values for an
// existing product. Callers resolve the current row first and overlay
// the changed fields, so an update is always a single whole-row write.
type UpdateProductParams struct {
	ID          int64
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  int64
}

// CategoryStore is an interface for category storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type CategoryStore interface {
	// FindAll returns all categories with their product counts.
	// Returns an empty slice if no categories exist.
	FindAll(ctx context.Context) ([]Category, error)

	// FindByID retrieves a single category by its identifier.
	// Returns ErrCategoryNotFound if no category exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Category, error)

	// NameExists reports whether a category other than excludeID already
	// holds the given name. Pass excludeID 0 to match any category.
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)

	// Create adds a new category.
	// Returns ErrCategoryNameTaken if the name is already in use.
	Create(ctx context.Context, name string) (*Category, error)

	// UpdateName renames an existing category.
	// Returns ErrCategoryNotFound if no category exists with the given ID
	// and ErrCategoryNameTaken if the name is already in use.
	UpdateName(ctx context.Context, id int64, name string) (*Category, error)

	// DeleteByID removes a category by its ID.
	// Returns ErrCategoryNotFound if no category exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindAll returns all products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByCategory returns all products belonging to the given category.
	// Returns an empty slice if the category has no products.
	FindByCategory(ctx context.Context, categoryID int64) ([]Product, error)

	// Create adds a new product.
	// Returns ErrCategoryNotFound if the referenced category does not exist.
	Create(ctx context.Context, params CreateProductParams) (*Product, error)

	// Update overwrites an existing product's details.
	// Returns ErrProductNotFound if no product exists with the given ID and
	// ErrCategoryNotFound if the referenced category does not exist.
	Update(ctx context.Context, params UpdateProductParams) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}
