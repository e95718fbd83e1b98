package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/cart"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/gin-gonic/gin"
)

// Les paniers stockent les clés d'objets ; les URLs signées expirent et ne
// sont produites qu'à la réponse.
func (h *Handler) signLine(ctx context.Context, it models.CartItem) models.CartItem {
	it.Product = h.deps.Media.SignProduct(ctx, it.Product)
	return it
}

func (h *Handler) signSnapshot(ctx context.Context, snap cart.Snapshot) cart.Snapshot {
	for i := range snap.Items {
		snap.Items[i] = h.signLine(ctx, snap.Items[i])
	}
	return snap
}

// 🟢 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	store, ok := h.cart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.signSnapshot(c.Request.Context(), store.Snapshot()))
}

// 🟢 POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
		Color     string `json:"color"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	if !h.catalogReady(c) {
		return
	}
	product, found := h.deps.Catalog.Product(req.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	store, ok := h.cart(c)
	if !ok {
		return
	}
	line, err := store.Add(c.Request.Context(), product, req.Quantity, req.Color, req.Size)
	if errors.Is(err, cart.ErrOutOfStock) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// clamped permet au client de signaler une quantité ramenée au stock.
	requested := max(req.Quantity, 1)
	c.JSON(http.StatusOK, gin.H{
		"item":    h.signLine(c.Request.Context(), line),
		"clamped": line.Quantity < requested,
		"cart":    h.signSnapshot(c.Request.Context(), store.Snapshot()),
	})
}

// 🟢 PATCH /api/cart/items/:id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	store, ok := h.cart(c)
	if !ok {
		return
	}
	line, err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item": h.signLine(c.Request.Context(), line),
		"cart": h.signSnapshot(c.Request.Context(), store.Snapshot()),
	})
}

// 🟢 DELETE /api/cart/items/:id
// Une ligne inconnue ne change rien : le panier est renvoyé tel quel.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	store, ok := h.cart(c)
	if !ok {
		return
	}
	_ = store.Remove(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, h.signSnapshot(c.Request.Context(), store.Snapshot()))
}

// 🟢 DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	store, ok := h.cart(c)
	if !ok {
		return
	}
	store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.signSnapshot(c.Request.Context(), store.Snapshot()))
}
