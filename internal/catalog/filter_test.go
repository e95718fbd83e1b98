package catalog

import (
	"testing"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/stretchr/testify/assert"
)

func ids(products []models.Product) []string {
	out := []string{}
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	s := loadedStore(t)

	tests := []struct {
		name string
		mod  func(*Criteria)
		want []string
	}{
		{"featured puts low stock first", func(c *Criteria) {}, []string{"p1", "p2", "p3"}},
		{"price ascending", func(c *Criteria) { c.Sort = SortPriceAsc }, []string{"p3", "p2", "p1"}},
		{"price descending", func(c *Criteria) { c.Sort = SortPriceDesc }, []string{"p1", "p2", "p3"}},
		{"newest", func(c *Criteria) { c.Sort = SortNewest }, []string{"p2", "p3", "p1"}},
		{"category", func(c *Criteria) { c.Category = models.CategoryHijab }, []string{"p3"}},
		{"color", func(c *Criteria) { c.Color = "Black"; c.Sort = SortPriceAsc }, []string{"p3", "p1"}},
		{"price range", func(c *Criteria) { c.MinPrice = 5000; c.MaxPrice = 20000 }, []string{"p2"}},
		{"nothing matches", func(c *Criteria) { c.Color = "Teal" }, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCriteria()
			tt.mod(&c)
			assert.Equal(t, tt.want, ids(s.Filter(c)))
		})
	}
}

func TestFilterDoesNotReorderStore(t *testing.T) {
	s := loadedStore(t)
	c := NewCriteria()
	c.Sort = SortPriceAsc
	_ = s.Filter(c)

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(s.Products()))
}

func TestActiveFilters(t *testing.T) {
	c := NewCriteria()
	assert.Equal(t, 0, c.ActiveFilters())

	c.Category = models.CategoryAbaya
	c.Color = "Black"
	assert.Equal(t, 2, c.ActiveFilters())

	c.MaxPrice = 30000
	assert.Equal(t, 3, c.ActiveFilters())
}
