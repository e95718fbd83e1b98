package handlers

import (
	"net/http"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/checkout"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const qrSize = 256

// 🟢 GET /api/checkout/step
func (h *Handler) GetCheckoutStep(c *gin.Context) {
	flow := h.deps.Flows.For(middleware.CartOwner(c))
	c.JSON(http.StatusOK, gin.H{"step": flow.Step()})
}

// 🟢 POST /api/checkout/step
func (h *Handler) SetCheckoutStep(c *gin.Context) {
	var req struct {
		Step checkout.Step `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	flow := h.deps.Flows.For(middleware.CartOwner(c))
	if err := flow.Set(req.Step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": flow.Step()})
}

// 🟢 POST /api/checkout
// Compose le message WhatsApp, puis vide le panier et remet le parcours à zéro.
func (h *Handler) Checkout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if userID := c.GetString(middleware.ContextUserID); userID != "" && h.deps.Profiles != nil {
		profile, err := h.deps.Profiles.Fetch(ctx, userID)
		if err != nil {
			zap.L().Warn("⚠️ Profil indisponible pour le pré-remplissage", zap.String("user_id", userID), zap.Error(err))
		} else {
			form = form.Prefill(profile)
		}
	}
	if err := form.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.cart(c)
	if !ok {
		return
	}
	// Les lignes sont retirées du panier au moment où elles entrent dans le message.
	items, total := store.Drain(ctx)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	msg := checkout.ComposeMessage(items, total, form)
	link := checkout.Link(h.deps.WhatsAppRecipient, msg)

	qr, err := checkout.QRCode(link, qrSize)
	if err != nil {
		zap.L().Warn("⚠️ QR code non généré", zap.Error(err))
	}

	h.deps.Flows.For(middleware.CartOwner(c)).Complete()

	zap.L().Info("🛍️ Commande transmise", zap.String("owner", middleware.CartOwner(c)), zap.Int("lines", len(items)), zap.Int64("total", total))
	c.JSON(http.StatusOK, gin.H{
		"link":  link,
		"qr":    qr,
		"total": total,
	})
}
