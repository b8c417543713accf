package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	products := catalog.List()
	require.Len(t, products, 6)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
		assert.Greater(t, p.MaxAmount, 0.0, "%s max amount", p.Name)
		assert.Greater(t, p.InterestRate, 0.0, "%s rate", p.Name)
		assert.Greater(t, p.MaxAge, p.MinAge, "%s age range", p.Name)
	}
	assert.Equal(t, []string{"Personal", "Home", "Car", "Education", "Business", "Gold"}, names)
}

func TestCatalogGet_CaseInsensitive(t *testing.T) {
	catalog := DefaultCatalog()

	for _, name := range []string{"Personal", "personal", "PERSONAL", "  personal  "} {
		p, err := catalog.Get(name)
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, "Personal", p.Name)
	}
}

func TestCatalogGet_Unknown(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := catalog.Get("Yacht")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestCatalogList_ReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	list := catalog.List()
	list[0].Name = "Tampered"

	p, err := catalog.Get("Personal")
	require.NoError(t, err)
	assert.Equal(t, "Personal", p.Name)
	assert.Equal(t, "Personal", catalog.List()[0].Name)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[
		{"type": "Boat", "description": "Marine vehicle financing.", "min_age": 25, "max_age": 60,
		 "min_cibil": 700, "min_income": 80000, "max_amount": 3000000, "interest_rate": 10.5, "tenure_years": 8}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.List(), 1)

	p, err := catalog.Get("boat")
	require.NoError(t, err)
	assert.Equal(t, "Boat", p.Name)
	assert.Equal(t, 3000000.0, p.MaxAmount)
	assert.Equal(t, 10.5, p.InterestRate)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCatalog_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
