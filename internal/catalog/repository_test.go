package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name, category string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Stock:    stock,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryFindByID(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := mustCreateProduct(t, conn, "Sony Headphones", "electronics", "199.99", 20)

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "Sony Headphones", found.Name)
	require.True(t, found.Price.Equal(decimal.RequireFromString("199.99")))
	require.Equal(t, 20, found.Stock)

	_, err = repo.FindByID(ctx, 99999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListOrdersByIDAndFilters(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateProduct(t, conn, "MacBook Pro", "electronics", "1299.99", 10)
	mustCreateProduct(t, conn, "Desk Lamp", "home", "24.50", 5)
	mustCreateProduct(t, conn, "Gaming Mouse", "electronics", "49.99", 30)

	all, err := repo.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "MacBook Pro", all[0].Name)
	require.Equal(t, "Gaming Mouse", all[2].Name)

	electronics, err := repo.List(ctx, ListFilters{Category: "electronics"})
	require.NoError(t, err)
	require.Len(t, electronics, 2)
	for _, p := range electronics {
		require.Equal(t, "electronics", p.Category)
	}
}

func TestRepositoryDecrementStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := mustCreateProduct(t, conn, "iPhone 15", "electronics", "799.99", 3)

	require.NoError(t, repo.DecrementStock(ctx, seeded.ID, 2))

	after, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, 1, after.Stock)

	// requesting more than remains must not touch the row
	err = repo.DecrementStock(ctx, seeded.ID, 2)
	require.True(t, errors.Is(err, ErrStockConflict))

	after, err = repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, 1, after.Stock)
}

func TestRepositoryDecrementStockUnknownProduct(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	err := repo.DecrementStock(context.Background(), 424242, 1)
	require.ErrorIs(t, err, ErrStockConflict)
}

func TestRepositorySetStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := mustCreateProduct(t, conn, "Gaming Mouse", "electronics", "49.99", 30)

	require.NoError(t, repo.SetStock(ctx, seeded.ID, 12))
	after, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, 12, after.Stock)

	err = repo.SetStock(ctx, 99999, 5)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindForUpdateWithoutRowLocks(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := mustCreateProduct(t, conn, "MacBook Pro", "electronics", "1299.99", 10)

	found, err := repo.FindForUpdate(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindForUpdate(ctx, 99999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
