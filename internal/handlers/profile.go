package handlers

import (
	"net/http"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 🟢 GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	p, err := h.deps.Profiles.Fetch(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("❌ Lecture profil", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile could not be loaded", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// 🟢 PUT /api/profile
func (h *Handler) SaveProfile(c *gin.Context) {
	var p models.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	saved, err := h.deps.Profiles.Save(c.Request.Context(), userID, p)
	if err != nil {
		zap.L().Error("❌ Sauvegarde profil", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile could not be saved", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}
