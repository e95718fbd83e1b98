package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsPingInterval = 30 * time.Second

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(h.deps.AllowedOrigins) == 0 || slices.Contains(h.deps.AllowedOrigins, origin)
		},
	}
}

// 🟢 GET /api/cart/ws
// Pousse le contenu du panier à chaque modification, y compris depuis un autre onglet.
func (h *Handler) CartWebSocket(c *gin.Context) {
	owner := middleware.CartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no session"})
		return
	}
	if !h.deps.Carts.CanWatch() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "live cart sync disabled"})
		return
	}

	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("❌ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, unsubscribe, err := h.deps.Carts.Watch(ctx, owner)
	if err != nil {
		zap.L().Error("❌ Abonnement panier impossible", zap.String("owner", owner), zap.Error(err))
		_ = conn.WriteJSON(gin.H{"type": "error", "message": "subscription failed"})
		return
	}
	defer unsubscribe()

	// Lecture nécessaire pour traiter les trames de fermeture du client.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	store, err := h.deps.Carts.Get(ctx, owner)
	if err != nil {
		_ = conn.WriteJSON(gin.H{"type": "error", "message": "cart unavailable"})
		return
	}
	if err := conn.WriteJSON(gin.H{"type": "connected", "cart": h.signSnapshot(ctx, store.Snapshot())}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := conn.WriteJSON(gin.H{"type": "cart_updated", "cart": h.signSnapshot(ctx, snap)}); err != nil {
				zap.L().Debug("Envoi WebSocket interrompu", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
