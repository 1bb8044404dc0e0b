package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "github.com/rgavidia/go-inventory/internal/errors"
)

// Postgres error codes relevant to the schema constraints.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// CategoryPgStore implements CategoryStore using PostgreSQL as the data store.
type CategoryPgStore struct {
	db *pgxpool.Pool
}

// NewCategoryPgStore creates a new CategoryStore backed by a PostgreSQL connection pool.
func NewCategoryPgStore(dbp *pgxpool.Pool) *CategoryPgStore {
	return &CategoryPgStore{db: dbp}
}

const categorySelect = `
SELECT c.id, c.name, count(p.id)
FROM categories c
LEFT JOIN products p ON p.category_id = c.id
`

// FindAll returns all categories with their product counts, in id order.
func (s *CategoryPgStore) FindAll(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, categorySelect+"GROUP BY c.id, c.name ORDER BY c.id")
	if err != nil {
		return nil, fmt.Errorf("failed to find all categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category rows: %w", err)
	}
	return categories, nil
}

// FindByID retrieves a category by its identifier.
// Returns ErrCategoryNotFound if no category exists with the given ID.
func (s *CategoryPgStore) FindByID(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := s.db.QueryRow(ctx, categorySelect+"WHERE c.id = $1 GROUP BY c.id, c.name", id).
		Scan(&c.ID, &c.Name, &c.ProductCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return &c, nil
}

// NameExists reports whether a category other than excludeID holds the given name.
func (s *CategoryPgStore) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)",
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// Create adds a new category. The unique constraint on name backs up the
// service-level duplicate check; a violation maps to ErrCategoryNameTaken.
func (s *CategoryPgStore) Create(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := s.db.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id, name", name).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if isPgErrorCode(err, codeUniqueViolation) {
			return nil, apperrors.ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

// UpdateName renames an existing category.
func (s *CategoryPgStore) UpdateName(ctx context.Context, id int64, name string) (*Category, error) {
	var c Category
	err := s.db.QueryRow(ctx, `
UPDATE categories SET name = $2 WHERE id = $1
RETURNING id, name, (SELECT count(*) FROM products p WHERE p.category_id = categories.id)`,
		id, name).Scan(&c.ID, &c.Name, &c.ProductCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		if isPgErrorCode(err, codeUniqueViolation) {
			return nil, apperrors.ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

// DeleteByID removes a category by its identifier.
func (s *CategoryPgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// isPgErrorCode reports whether err is a Postgres error with the given code.
func isPgErrorCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
