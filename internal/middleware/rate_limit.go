package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limit décrit une fenêtre fixe : Max requêtes par Window.
type Limit struct {
	Name   string
	Max    int64
	Window time.Duration
}

var (
	CartLimit     = Limit{Name: "cart_add", Max: 20, Window: time.Minute}
	SearchLimit   = Limit{Name: "search", Max: 30, Window: time.Minute}
	ReviewLimit   = Limit{Name: "review", Max: 5, Window: 10 * time.Minute}
	CheckoutLimit = Limit{Name: "checkout", Max: 5, Window: time.Minute}
)

// RateLimit compte les requêtes par propriétaire de panier (ou IP à défaut).
// Un compteur indisponible laisse passer la requête.
func RateLimit(counter storage.Counter, l Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := CartOwner(c)
		if who == "" {
			who = "ip:" + c.ClientIP()
		}
		key := "rl:" + l.Name + ":" + who

		n, err := counter.Incr(c.Request.Context(), key, l.Window)
		if err != nil {
			zap.L().Warn("⚠️ Compteur de limite indisponible", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l.Max))
		if n > l.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests, try again later",
				"retry_after": int(l.Window.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", l.Max-n))
		c.Next()
	}
}
