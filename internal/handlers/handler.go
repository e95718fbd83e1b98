// Package handlers expose les stores de la boutique en JSON pour le front.
package handlers

import (
	"context"
	"net/http"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/cart"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/catalog"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/checkout"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/media"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/profiles"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Searcher retourne les ids des produits correspondant à une recherche.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

type Dependencies struct {
	Gateway  gateway.Gateway
	Catalog  *catalog.Store
	Profiles *profiles.Service
	Carts    *cart.Registry
	Flows    *checkout.Flows

	// Optionnels : nil quand Elasticsearch ou MinIO ne sont pas configurés.
	Search Searcher
	Media  *media.Signer

	WhatsAppRecipient string
	// AllowedOrigins filtre les connexions WebSocket ; vide = toutes.
	AllowedOrigins []string
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Flows == nil {
		d.Flows = checkout.NewFlows()
	}
	if d.WhatsAppRecipient == "" {
		d.WhatsAppRecipient = checkout.DefaultRecipient
	}
	return &Handler{deps: d}
}

// 🟢 GET /api/health
func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":          "ok",
		"catalog_loaded":  h.deps.Catalog.Loaded(),
		"catalog_loading": h.deps.Catalog.Loading(),
	}
	if msg := h.deps.Catalog.Err(); msg != "" {
		body["catalog_error"] = msg
	}
	c.JSON(status, body)
}

func (h *Handler) cart(c *gin.Context) (*cart.Store, bool) {
	owner := middleware.CartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no session"})
		return nil, false
	}
	store, err := h.deps.Carts.Get(c.Request.Context(), owner)
	if err != nil {
		zap.L().Error("❌ Panier indisponible", zap.String("owner", owner), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart unavailable"})
		return nil, false
	}
	return store, true
}

// catalogReady répond 503 tant que le catalogue n'a jamais été chargé.
func (h *Handler) catalogReady(c *gin.Context) bool {
	if h.deps.Catalog.Loaded() {
		return true
	}
	body := gin.H{"error": "catalog not loaded"}
	if msg := h.deps.Catalog.Err(); msg != "" {
		body["details"] = msg
	}
	c.JSON(http.StatusServiceUnavailable, body)
	return false
}
