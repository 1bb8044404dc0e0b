package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/pkg/bootstrap"
)

const skipIntegrationTests = "INVENTORY_SKIP_INTEGRATION_TESTS"

// InventoryStoreSuite exercises both Postgres stores against a real database.
type InventoryStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	categories  CategoryStore
	products    ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, connects a pool with the
// decimal codec registered and applies the schema migrations.
func (s *InventoryStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("inventory_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = bootstrap.NewDbPool(s.ctx, connStr, time.Minute, 0)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../migrations")
	require.NoError(s.T(), bootstrap.ApplyMigrations(migrationsPath, connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied for integration tests")

	s.categories = NewCategoryPgStore(s.dbPool)
	s.products = NewProductPgStore(s.dbPool)
	s.logger.Info("Initialization complete for InventoryStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *InventoryStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest resets both tables before each test.
func (s *InventoryStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products, categories RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// TestInventoryStoreIntegration runs the store integration tests.
func TestInventoryStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(InventoryStoreSuite))
}

// createTestCategory is a helper to create a category for testing purposes.
func (s *InventoryStoreSuite) createTestCategory(name string) *Category {
	s.T().Helper()
	category, err := s.categories.Create(s.ctx, name)
	require.NoError(s.T(), err, "createTestCategory helper failed")
	return category
}

// createTestProduct is a helper to create a product for testing purposes.
func (s *InventoryStoreSuite) createTestProduct(name string, price string, stock int64, categoryID int64) *Product {
	s.T().Helper()
	product, err := s.products.Create(s.ctx, CreateProductParams{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	})
	require.NoError(s.T(), err, "createTestProduct helper failed")
	return product
}

func (s *InventoryStoreSuite) TestCategoryCreateAndFind() {
	s.SetupTest()
	// given
	created := s.createTestCategory("Electronics")
	require.NotZero(s.T(), created.ID)
	require.Equal(s.T(), "Electronics", created.Name)

	// when
	fetched, err := s.categories.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, fetched.ID)
	assert.Equal(s.T(), "Electronics", fetched.Name)
	assert.Zero(s.T(), fetched.ProductCount, "New category should have no products")
}

func (s *InventoryStoreSuite) TestCategoryFindByID_NotFound() {
	s.SetupTest()
	// when
	_, err := s.categories.FindByID(s.ctx, 12345)
	// then
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNotFound)
}

func (s *InventoryStoreSuite) TestCategoryCreate_DuplicateName() {
	s.SetupTest()
	// given
	s.createTestCategory("Electronics")

	// when
	_, err := s.categories.Create(s.ctx, "Electronics")

	// then the unique constraint surfaces as the conflict error
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNameTaken)
}

func (s *InventoryStoreSuite) TestCategoryNameExists() {
	s.SetupTest()
	// given
	created := s.createTestCategory("Electronics")

	testCases := []struct {
		name      string
		lookup    string
		excludeID int64
		expected  bool
	}{
		{name: "existing name", lookup: "Electronics", expected: true},
		{name: "unknown name", lookup: "Books", expected: false},
		{name: "own row excluded", lookup: "Electronics", excludeID: created.ID, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			exists, err := s.categories.NameExists(s.ctx, tc.lookup, tc.excludeID)
			// then
			require.NoError(s.T(), err)
			assert.Equal(s.T(), tc.expected, exists)
		})
	}
}

func (s *InventoryStoreSuite) TestCategoryUpdateName() {
	s.SetupTest()
	// given
	created := s.createTestCategory("Electronics")

	// when
	updated, err := s.categories.UpdateName(s.ctx, created.ID, "Gadgets")

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, updated.ID)
	assert.Equal(s.T(), "Gadgets", updated.Name)

	// and renaming a missing row reports not found
	_, err = s.categories.UpdateName(s.ctx, 12345, "Whatever")
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNotFound)
}

func (s *InventoryStoreSuite) TestCategoryProductCount() {
	s.SetupTest()
	// given
	category := s.createTestCategory("Electronics")
	other := s.createTestCategory("Books")
	s.createTestProduct("Laptop", "999.99", 5, category.ID)
	s.createTestProduct("Mouse", "19.99", 50, category.ID)

	// when
	fetched, err := s.categories.FindByID(s.ctx, category.ID)
	require.NoError(s.T(), err)
	all, errAll := s.categories.FindAll(s.ctx)
	require.NoError(s.T(), errAll)

	// then
	assert.Equal(s.T(), int64(2), fetched.ProductCount)
	require.Len(s.T(), all, 2)
	assert.Equal(s.T(), int64(2), all[0].ProductCount)
	assert.Equal(s.T(), other.ID, all[1].ID)
	assert.Zero(s.T(), all[1].ProductCount)
}

func (s *InventoryStoreSuite) TestCategoryDelete() {
	s.SetupTest()
	// given
	created := s.createTestCategory("Electronics")

	// when
	err := s.categories.DeleteByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	_, err = s.categories.FindByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNotFound)

	// and deleting again reports not found
	require.ErrorIs(s.T(), s.categories.DeleteByID(s.ctx, created.ID), apperrors.ErrCategoryNotFound)
}

func (s *InventoryStoreSuite) TestCategoryDelete_Cascade() {
	s.SetupTest()
	// given a category with a product; the guard against this lives in
	// the service layer, at the store level the cascade applies
	category := s.createTestCategory("Electronics")
	product := s.createTestProduct("Laptop", "999.99", 5, category.ID)

	// when
	require.NoError(s.T(), s.categories.DeleteByID(s.ctx, category.ID))

	// then
	_, err := s.products.FindByID(s.ctx, product.ID)
	require.ErrorIs(s.T(), err, apperrors.ErrProductNotFound)
}

func (s *InventoryStoreSuite) TestProductCreateAndFind() {
	s.SetupTest()
	// given
	category := s.createTestCategory("Electronics")
	description := "A fast laptop"
	created, err := s.products.Create(s.ctx, CreateProductParams{
		Name:        "Laptop",
		Description: &description,
		Price:       decimal.RequireFromString("999.99"),
		Stock:       5,
		CategoryID:  category.ID,
	})
	require.NoError(s.T(), err)
	require.NotZero(s.T(), created.ID)
	assert.Equal(s.T(), "Electronics", created.CategoryName)

	// when
	fetched, err := s.products.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, fetched.ID)
	assert.Equal(s.T(), "Laptop", fetched.Name)
	require.NotNil(s.T(), fetched.Description)
	assert.Equal(s.T(), description, *fetched.Description)
	assert.True(s.T(), decimal.RequireFromString("999.99").Equal(fetched.Price), "Price should round-trip")
	assert.Equal(s.T(), int64(5), fetched.Stock)
	assert.Equal(s.T(), category.ID, fetched.CategoryID)
	assert.Equal(s.T(), "Electronics", fetched.CategoryName)
}

func (s *InventoryStoreSuite) TestProductCreate_UnknownCategory() {
	s.SetupTest()
	// when
	_, err := s.products.Create(s.ctx, CreateProductParams{
		Name:       "Laptop",
		Price:      decimal.RequireFromString("999.99"),
		Stock:      5,
		CategoryID: 12345,
	})

	// then the foreign key violation surfaces as a missing category
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNotFound)
}

func (s *InventoryStoreSuite) TestProductFindByCategory() {
	s.SetupTest()
	// given
	electronics := s.createTestCategory("Electronics")
	books := s.createTestCategory("Books")
	s.createTestProduct("Laptop", "999.99", 5, electronics.ID)
	s.createTestProduct("Mouse", "19.99", 50, electronics.ID)
	s.createTestProduct("Novel", "9.99", 100, books.ID)

	// when
	found, err := s.products.FindByCategory(s.ctx, electronics.ID)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), found, 2)
	assert.Equal(s.T(), "Laptop", found[0].Name)
	assert.Equal(s.T(), "Mouse", found[1].Name)

	// and an empty category yields an empty slice
	empty, err := s.products.FindByCategory(s.ctx, 12345)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), empty)
}

func (s *InventoryStoreSuite) TestProductUpdate() {
	s.SetupTest()
	// given
	electronics := s.createTestCategory("Electronics")
	books := s.createTestCategory("Books")
	created := s.createTestProduct("Laptop", "999.99", 5, electronics.ID)

	// when the whole row is overwritten, including the category
	updated, err := s.products.Update(s.ctx, UpdateProductParams{
		ID:         created.ID,
		Name:       "Laptop Pro",
		Price:      decimal.RequireFromString("1299.00"),
		Stock:      3,
		CategoryID: books.ID,
	})

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Laptop Pro", updated.Name)
	assert.True(s.T(), decimal.RequireFromString("1299.00").Equal(updated.Price))
	assert.Equal(s.T(), int64(3), updated.Stock)
	assert.Equal(s.T(), books.ID, updated.CategoryID)
	assert.Equal(s.T(), "Books", updated.CategoryName)
	assert.Nil(s.T(), updated.Description)
}

func (s *InventoryStoreSuite) TestProductUpdate_Errors() {
	s.SetupTest()
	// given
	electronics := s.createTestCategory("Electronics")
	created := s.createTestProduct("Laptop", "999.99", 5, electronics.ID)

	// updating a missing product reports not found
	_, err := s.products.Update(s.ctx, UpdateProductParams{
		ID:         12345,
		Name:       "Laptop",
		Price:      decimal.RequireFromString("1.00"),
		Stock:      1,
		CategoryID: electronics.ID,
	})
	require.ErrorIs(s.T(), err, apperrors.ErrProductNotFound)

	// reassigning to a missing category reports the category as missing
	_, err = s.products.Update(s.ctx, UpdateProductParams{
		ID:         created.ID,
		Name:       "Laptop",
		Price:      decimal.RequireFromString("1.00"),
		Stock:      1,
		CategoryID: 12345,
	})
	require.ErrorIs(s.T(), err, apperrors.ErrCategoryNotFound)
}

func (s *InventoryStoreSuite) TestProductDelete() {
	s.SetupTest()
	// given
	electronics := s.createTestCategory("Electronics")
	created := s.createTestProduct("Laptop", "999.99", 5, electronics.ID)

	// when
	require.NoError(s.T(), s.products.DeleteByID(s.ctx, created.ID))

	// then
	_, err := s.products.FindByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, apperrors.ErrProductNotFound)
	require.ErrorIs(s.T(), s.products.DeleteByID(s.ctx, created.ID), apperrors.ErrProductNotFound)
}
