package models

// CartItem garde une copie du produit au moment de l'ajout : prix et stock
// ne sont pas rechargés.
type CartItem struct {
	ID            string  `json:"id"`
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedColor string  `json:"selectedColor,omitempty"`
	SelectedSize  string  `json:"selectedSize,omitempty"`
}

func (i CartItem) Subtotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}
