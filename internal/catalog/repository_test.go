package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCatalog(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	repo, err := NewRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.RunMigrations("../../migrations/catalog")
	require.NoError(t, err)

	return repo
}

func TestGetAllProducts_SeededAndSorted(t *testing.T) {
	repo := setupTestCatalog(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 10)

	// ORDER BY name
	assert.Equal(t, "Bath Soap 125g", products[0].Name)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].Name, products[i].Name)
	}
}

func TestGetProduct_Success(t *testing.T) {
	repo := setupTestCatalog(t)

	p, err := repo.GetProduct(context.Background(), "milk-1l")
	require.NoError(t, err)
	assert.Equal(t, "Milk 1L", p.Name)
	assert.Equal(t, 30.0, p.Price)
	assert.Equal(t, 1030.0, p.WeightGrams)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestCatalog(t)

	_, err := repo.GetProduct(context.Background(), "no-such-product")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	repo := setupTestCatalog(t)

	// A second run is a no-op, not an error
	require.NoError(t, repo.RunMigrations("../../migrations/catalog"))

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 10)
}
