package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/catalog"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/reviews"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func parseCriteria(c *gin.Context) (catalog.Criteria, error) {
	crit := catalog.NewCriteria()

	if v := c.Query("category"); v != "" {
		cat := models.Category(v)
		if !cat.Valid() {
			return crit, errBadParam("category")
		}
		crit.Category = cat
	}
	crit.Color = c.Query("color")

	for name, dst := range map[string]*int64{"min_price": &crit.MinPrice, "max_price": &crit.MaxPrice} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return crit, errBadParam(name)
		}
		*dst = n
	}

	if v := c.Query("sort"); v != "" {
		switch mode := catalog.SortMode(v); mode {
		case catalog.SortFeatured, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortNewest:
			crit.Sort = mode
		default:
			return crit, errBadParam("sort")
		}
	}
	return crit, nil
}

type paramError string

func (e paramError) Error() string { return "invalid parameter: " + string(e) }

func errBadParam(name string) error { return paramError(name) }

// 🟢 GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}
	crit, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products := h.deps.Media.SignProducts(c.Request.Context(), h.deps.Catalog.Filter(crit))
	body := gin.H{
		"products":       products,
		"count":          len(products),
		"active_filters": crit.ActiveFilters(),
	}
	if c.Query("with_ratings") == "true" {
		ids := make([]string, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		body["ratings"] = reviews.StatsFor(c.Request.Context(), h.deps.Gateway, ids)
	}
	c.JSON(http.StatusOK, body)
}

// 🟢 GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}
	p, ok := h.deps.Catalog.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, h.deps.Media.SignProduct(c.Request.Context(), p))
}

// 🟢 POST /api/products/refresh
func (h *Handler) RefreshProducts(c *gin.Context) {
	if err := h.deps.Catalog.FetchProducts(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog refresh failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(h.deps.Catalog.Products())})
}

// 🟢 GET /api/search?q=
func (h *Handler) Search(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"products": []models.Product{}, "count": 0})
		return
	}

	var results []models.Product
	source := "catalog"
	if h.deps.Search != nil {
		ids, err := h.deps.Search.Search(c.Request.Context(), q)
		if err != nil {
			zap.L().Warn("⚠️ Recherche Elasticsearch indisponible, repli sur le catalogue", zap.String("q", q), zap.Error(err))
		} else {
			results = h.deps.Catalog.ByIDs(ids)
			source = "elastic"
		}
	}
	if source == "catalog" {
		results = h.deps.Catalog.SearchProducts(q)
	}

	results = h.deps.Media.SignProducts(c.Request.Context(), results)
	c.JSON(http.StatusOK, gin.H{"products": results, "count": len(results), "source": source})
}
