package routes

import (
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/handlers"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

type Options struct {
	JWTSecret   string
	Sessions    sessions.Store
	Counter     storage.Counter
	CORSOrigins []string
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.Use(middleware.CORS(opts.CORSOrigins))

	api := r.Group("/api")
	api.GET("/health", h.Health)

	// Tout le reste connaît le visiteur et, s'il est connecté, l'utilisateur.
	shop := api.Group("", middleware.Session(opts.Sessions), middleware.OptionalAuth(opts.JWTSecret))
	limit := func(l middleware.Limit) gin.HandlerFunc {
		return middleware.RateLimit(opts.Counter, l)
	}

	// Catalogue
	shop.GET("/products", h.ListProducts)
	shop.POST("/products/refresh", h.RefreshProducts)
	shop.GET("/products/:id", h.GetProduct)
	shop.GET("/products/:id/reviews", h.ListReviews)
	shop.POST("/products/:id/reviews", limit(middleware.ReviewLimit), h.CreateReview)
	shop.GET("/search", limit(middleware.SearchLimit), h.Search)

	// Panier
	shop.GET("/cart", h.GetCart)
	shop.POST("/cart/items", limit(middleware.CartLimit), h.AddCartItem)
	shop.PATCH("/cart/items/:id", h.UpdateCartItem)
	shop.DELETE("/cart/items/:id", h.RemoveCartItem)
	shop.DELETE("/cart", h.ClearCart)
	shop.GET("/cart/ws", h.CartWebSocket)

	// Profil
	profile := shop.Group("/profile", middleware.AuthRequired(opts.JWTSecret))
	profile.GET("", h.GetProfile)
	profile.PUT("", h.SaveProfile)

	// Checkout
	shop.GET("/checkout/step", h.GetCheckoutStep)
	shop.POST("/checkout/step", h.SetCheckoutStep)
	shop.POST("/checkout", limit(middleware.CheckoutLimit), h.Checkout)
}
