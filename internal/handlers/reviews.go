package handlers

import (
	"errors"
	"net/http"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/reviews"
	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/products/:id/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	agg := reviews.NewAggregator(h.deps.Gateway)
	agg.Fetch(c.Request.Context(), c.Param("id"))

	stats := agg.Stats()
	c.JSON(http.StatusOK, gin.H{
		"reviews": agg.Reviews(),
		"count":   stats.Count,
		"average": stats.Average,
	})
}

// 🟢 POST /api/products/:id/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	productID := c.Param("id")
	if h.deps.Catalog.Loaded() {
		if _, ok := h.deps.Catalog.Product(productID); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
	}

	var req struct {
		Rating       int    `json:"rating"`
		ReviewerName string `json:"reviewer_name"`
		Comment      string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	in := models.NewReview{ProductID: productID, Rating: req.Rating, ReviewerName: req.ReviewerName, Comment: req.Comment}
	if err := reviews.Validate(in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agg := reviews.NewAggregator(h.deps.Gateway)
	created, err := agg.Add(c.Request.Context(), in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reviews.ErrEmptyInsert) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "review could not be saved", "details": agg.Err()})
		return
	}
	c.JSON(http.StatusCreated, created)
}
