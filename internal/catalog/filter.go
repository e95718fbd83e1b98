package catalog

import (
	"sort"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
)

type SortMode string

const (
	SortFeatured  SortMode = "featured"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNewest    SortMode = "newest"
)

// Bornes du curseur de prix de la boutique, en naira.
const (
	DefaultMinPrice int64 = 0
	DefaultMaxPrice int64 = 50000
)

// Criteria correspond aux filtres de la page boutique. Les champs vides ne
// filtrent pas.
type Criteria struct {
	Category models.Category
	Color    string
	MinPrice int64
	MaxPrice int64
	Sort     SortMode
}

func NewCriteria() Criteria {
	return Criteria{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice, Sort: SortFeatured}
}

// ActiveFilters compte la catégorie, la couleur et une fourchette de prix
// différente de la fourchette par défaut.
func (c Criteria) ActiveFilters() int {
	n := 0
	if c.Category != "" {
		n++
	}
	if c.Color != "" {
		n++
	}
	if c.MinPrice > DefaultMinPrice || c.MaxPrice < DefaultMaxPrice {
		n++
	}
	return n
}

func (s *Store) Filter(c Criteria) []models.Product {
	return Apply(s.Products(), c)
}

// Apply filtre puis trie une copie de products. Le tri est stable : à égalité,
// l'ordre du backend est conservé.
func Apply(products []models.Product, c Criteria) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.Color != "" && !p.HasColor(c.Color) {
			continue
		}
		if p.Price < c.MinPrice || p.Price > c.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch c.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	default:
		// featured : stock faible en premier
		sort.SliceStable(out, func(i, j int) bool { return out[i].IsLowStock && !out[j].IsLowStock })
	}
	return out
}
