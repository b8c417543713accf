package repository

import (
	"encoding/json"
	"os"
	"strings"

	"loan-advisor/domain"
)

// Catalog is the read-only loan product list. It is built once at startup
// and injected into the services that consume it; no lookups mutate it.
type Catalog struct {
	products []domain.LoanType
	byName   map[string]int
}

// NewCatalog builds a catalog from the given products. Order is preserved
// for listing; lookup by name is case-insensitive.
func NewCatalog(products []domain.LoanType) *Catalog {
	c := &Catalog{
		products: make([]domain.LoanType, len(products)),
		byName:   make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byName[strings.ToLower(p.Name)] = i
	}
	return c
}

// LoadCatalog reads a JSON product list from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []domain.LoanType
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return NewCatalog(products), nil
}

// List returns the products in catalog order. The slice is a copy; callers
// cannot mutate the catalog through it.
func (c *Catalog) List() []domain.LoanType {
	out := make([]domain.LoanType, len(c.products))
	copy(out, c.products)
	return out
}

// Get resolves a loan type by name, ignoring case.
func (c *Catalog) Get(name string) (domain.LoanType, error) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.LoanType{}, domain.NewNotFoundError("loan type %q not found", name)
	}
	return c.products[i], nil
}

// DefaultCatalog returns the built-in product list used when no catalog
// file is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog([]domain.LoanType{
		{
			Name:         "Personal",
			Description:  "Unsecured loan for personal expenses, no collateral required.",
			MinAge:       21,
			MaxAge:       60,
			MinCibil:     700,
			MinIncome:    25000,
			MaxAmount:    1500000,
			InterestRate: 11.5,
			TenureYears:  5,
		},
		{
			Name:         "Home",
			Description:  "Long-tenure loan for purchasing or constructing a house.",
			MinAge:       23,
			MaxAge:       65,
			MinCibil:     650,
			MinIncome:    40000,
			MaxAmount:    10000000,
			InterestRate: 8.5,
			TenureYears:  20,
		},
		{
			Name:         "Car",
			Description:  "Financing for new or used vehicles.",
			MinAge:       21,
			MaxAge:       65,
			MinCibil:     680,
			MinIncome:    30000,
			MaxAmount:    2500000,
			InterestRate: 9.25,
			TenureYears:  7,
		},
		{
			Name:         "Education",
			Description:  "Loan for higher education in India or abroad.",
			MinAge:       18,
			MaxAge:       35,
			MinCibil:     650,
			MinIncome:    20000,
			MaxAmount:    5000000,
			InterestRate: 10.0,
			TenureYears:  10,
		},
		{
			Name:         "Business",
			Description:  "Working capital or expansion loan for registered businesses.",
			MinAge:       25,
			MaxAge:       65,
			MinCibil:     720,
			MinIncome:    60000,
			MaxAmount:    20000000,
			InterestRate: 12.0,
			TenureYears:  10,
		},
		{
			Name:         "Gold",
			Description:  "Short-tenure loan secured against gold ornaments.",
			MinAge:       21,
			MaxAge:       70,
			MinCibil:     600,
			MinIncome:    15000,
			MaxAmount:    1000000,
			InterestRate: 9.0,
			TenureYears:  3,
		},
	})
}
