package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/internal/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindByCategory returns the products of an existing category.
	// Returns ErrCategoryNotFound if the category does not exist; an
	// unknown category is an error, not an empty result.
	FindByCategory(ctx context.Context, categoryID int64) ([]ProductDto, error)

	// Create validates and persists a new product referencing an
	// existing category.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update modifies the provided fields of an existing product,
	// leaving absent fields unchanged.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int64           `json:"stock"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price and stock arrive as JSON numbers so presence, convertibility and
// sign are checked separately, in that order.
type ProductCreateDto struct {
	Name        string       `json:"name"        validate:"max=200"`
	Price       *json.Number `json:"price"`
	Stock       *json.Number `json:"stock"`
	CategoryID  *int64       `json:"category_id"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
}

// ProductUpdateDto represents the data transfer object for a partial
// product update. Nil fields are left unchanged.
type ProductUpdateDto struct {
	Name        *string      `json:"name"        validate:"omitempty,max=200"`
	Price       *json.Number `json:"price"`
	Stock       *json.Number `json:"stock"`
	CategoryID  *int64       `json:"category_id"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
}

// ProductSvc implements ProductService on top of a ProductStore. It
// consults the CategoryService (read-only) for referential checks.
type ProductSvc struct {
	repository store.ProductStore
	categories CategoryService
}

// NewProductService creates a new ProductService with the provided
// repository and category service.
func NewProductService(repo store.ProductStore, categories CategoryService) *ProductSvc {
	return &ProductSvc{
		repository: repo,
		categories: categories,
	}
}

// FindAll retrieves all products and returns them as ProductDtos.
func (s *ProductSvc) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toProductDtos(products), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *ProductSvc) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toProductDto(product), nil
}

// FindByCategory verifies the category exists, then returns its products.
func (s *ProductSvc) FindByCategory(ctx context.Context, categoryID int64) ([]ProductDto, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	products, err := s.repository.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for category %d: %w", categoryID, err)
	}
	return toProductDtos(products), nil
}

// Create validates the new product and persists it. Validation order:
// name, price, stock, category existence. Nothing is written unless
// every check passes.
func (s *ProductSvc) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		return nil, apperrors.ErrProductNameRequired
	}

	price, err := parsePrice(product.Price)
	if err != nil {
		return nil, err
	}
	stock, err := parseStock(product.Stock)
	if err != nil {
		return nil, err
	}

	if product.CategoryID == nil {
		return nil, apperrors.ErrProductCategoryRequired
	}
	if _, err := s.categories.FindByID(ctx, *product.CategoryID); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, store.CreateProductParams{
		Name:        name,
		Description: trimDescription(product.Description),
		Price:       price,
		Stock:       stock,
		CategoryID:  *product.CategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductDto(created), nil
}

// Update resolves the product, validates every provided field, then
// applies them in a single whole-row write so a failed validation never
// leaves a partial update behind.
func (s *ProductSvc) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	params := store.UpdateProductParams{
		ID:          current.ID,
		Name:        current.Name,
		Description: current.Description,
		Price:       current.Price,
		Stock:       current.Stock,
		CategoryID:  current.CategoryID,
	}

	if product.Name != nil {
		name := strings.TrimSpace(*product.Name)
		if name == "" {
			return nil, apperrors.ErrProductNameEmpty
		}
		params.Name = name
	}
	if product.Price != nil {
		price, err := parsePrice(product.Price)
		if err != nil {
			return nil, err
		}
		params.Price = price
	}
	if product.Stock != nil {
		stock, err := parseStock(product.Stock)
		if err != nil {
			return nil, err
		}
		params.Stock = stock
	}
	if product.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *product.CategoryID); err != nil {
			return nil, err
		}
		params.CategoryID = *product.CategoryID
	}
	if product.Description != nil {
		params.Description = trimDescription(product.Description)
	}

	updated, err := s.repository.Update(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toProductDto(updated), nil
}

// DeleteByID removes a product. Products have no dependents, so the
// delete is unconditional.
func (s *ProductSvc) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

// parsePrice checks presence, convertibility and sign, in that order.
func parsePrice(n *json.Number) (decimal.Decimal, error) {
	if n == nil {
		return decimal.Decimal{}, apperrors.ErrProductPriceRequired
	}
	price, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, apperrors.ErrProductPriceNotNumeric
	}
	if price.IsNegative() {
		return decimal.Decimal{}, apperrors.ErrProductPriceNegative
	}
	return price, nil
}

// parseStock checks presence, convertibility and sign, in that order.
func parseStock(n *json.Number) (int64, error) {
	if n == nil {
		return 0, apperrors.ErrProductStockRequired
	}
	stock, err := n.Int64()
	if err != nil {
		return 0, apperrors.ErrProductStockNotInteger
	}
	if stock < 0 {
		return 0, apperrors.ErrProductStockNegative
	}
	return stock, nil
}

// trimDescription normalizes a description: trimmed, blank becomes nil.
func trimDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toProductDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
	}
}

func toProductDtos(products []store.Product) []ProductDto {
	productDtos := make([]ProductDto, len(products))
	for i, item := range products {
		productDtos[i] = *toProductDto(&item)
	}
	return productDtos
}
