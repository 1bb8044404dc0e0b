package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "github.com/rgavidia/go-inventory/internal/errors"
)

// ProductPgStore implements ProductStore using PostgreSQL as the data store.
type ProductPgStore struct {
	db *pgxpool.Pool
}

// NewProductPgStore creates a new ProductStore backed by a PostgreSQL connection pool.
func NewProductPgStore(dbp *pgxpool.Pool) *ProductPgStore {
	return &ProductPgStore{db: dbp}
}

const productSelect = `
SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id, c.name
FROM products p
JOIN categories c ON c.id = p.category_id
`

// FindAll returns all products with their category names, in id order.
func (s *ProductPgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := s.db.Query(ctx, productSelect+"ORDER BY p.id")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return collectProducts(rows)
}

// FindByID retrieves a product by its identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *ProductPgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := s.db.QueryRow(ctx, productSelect+"WHERE p.id = $1", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &p, nil
}

// FindByCategory returns all products referencing the given category.
func (s *ProductPgStore) FindByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	rows, err := s.db.Query(ctx, productSelect+"WHERE p.category_id = $1 ORDER BY p.id", categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	return collectProducts(rows)
}

// Create adds a new product. The foreign key to categories backs up the
// service-level existence check; a violation maps to ErrCategoryNotFound.
func (s *ProductPgStore) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	var p Product
	err := s.db.QueryRow(ctx, `
WITH ins AS (
    INSERT INTO products (name, description, price, stock, category_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, name, description, price, stock, category_id
)
SELECT ins.id, ins.name, ins.description, ins.price, ins.stock, ins.category_id, c.name
FROM ins JOIN categories c ON c.id = ins.category_id`,
		params.Name, params.Description, params.Price, params.Stock, params.CategoryID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CategoryName)
	if err != nil {
		if isPgErrorCode(err, codeForeignKeyViolation) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// Update overwrites an existing product's details in a single statement.
func (s *ProductPgStore) Update(ctx context.Context, params UpdateProductParams) (*Product, error) {
	var p Product
	err := s.db.QueryRow(ctx, `
WITH upd AS (
    UPDATE products
    SET name = $2, description = $3, price = $4, stock = $5, category_id = $6
    WHERE id = $1
    RETURNING id, name, description, price, stock, category_id
)
SELECT upd.id, upd.name, upd.description, upd.price, upd.stock, upd.category_id, c.name
FROM upd JOIN categories c ON c.id = upd.category_id`,
		params.ID, params.Name, params.Description, params.Price, params.Stock, params.CategoryID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		if isPgErrorCode(err, codeForeignKeyViolation) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &p, nil
}

// DeleteByID removes a product by its identifier.
func (s *ProductPgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// collectProducts drains rows into a slice, closing them when done.
func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
