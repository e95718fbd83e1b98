package models

import "time"

type Category string

const (
	CategoryAbaya  Category = "Abaya"
	CategoryKaftan Category = "Kaftan"
	CategoryHijab  Category = "Hijab"
)

// Categories liste les catégories connues, dans l'ordre d'affichage.
var Categories = []Category{CategoryAbaya, CategoryKaftan, CategoryHijab}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product est une ligne de la collection products. Le prix est en naira entiers.
// IsLowStock est calculé par le backend, jamais ici.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	Category      Category  `json:"category"`
	Colors        []string  `json:"colors"`
	Sizes         []string  `json:"sizes"`
	Images        []string  `json:"images"`
	StockQuantity int       `json:"stock_quantity"`
	IsLowStock    bool      `json:"is_low_stock"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
