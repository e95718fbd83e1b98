package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/cart"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/catalog"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/checkout"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/config"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/handlers"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/logging"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/media"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/middleware"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/profiles"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/routes"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/search"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		zap.L().Info("ℹ️ Aucun fichier .env, lecture de l'environnement uniquement")
	}

	if !cfg.BackendConfigured() {
		zap.L().Error("❌ SUPABASE_URL ou SUPABASE_ANON_KEY manquant : connexion factice, le catalogue ne chargera pas",
			zap.String("placeholder", config.PlaceholderBackendURL))
	}
	backendURL, backendKey := cfg.Backend()
	gw, err := gateway.NewREST(backendURL, backendKey)
	if err != nil {
		zap.L().Fatal("❌ Client backend invalide", zap.Error(err))
	}

	var catalogOpts []catalog.Option
	var searcher handlers.Searcher
	if cfg.ElasticURL != "" {
		es, err := search.NewElastic(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword)
		if err != nil {
			zap.L().Warn("⚠️ Elasticsearch désactivé", zap.Error(err))
		} else {
			catalogOpts = append(catalogOpts, catalog.WithIndexer(es))
			searcher = es
			zap.L().Info("✅ Elasticsearch activé", zap.String("url", cfg.ElasticURL))
		}
	}

	var signer *media.Signer
	if cfg.MinioEndpoint != "" {
		client, err := media.NewMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			zap.L().Warn("⚠️ MinIO désactivé", zap.Error(err))
		} else {
			signer = media.NewSigner(client, cfg.MinioBucket)
			zap.L().Info("✅ MinIO activé", zap.String("bucket", cfg.MinioBucket))
		}
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, storage.Options{
		Driver:        cfg.StorageDriver,
		BoltPath:      cfg.BoltPath,
		RedisAddr:     cfg.RedisHost,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		zap.L().Fatal("❌ Stockage du panier indisponible", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer backend.Close()

	products := catalog.NewStore(gw, catalogOpts...)
	// Un échec est déjà journalisé ; les routes du catalogue répondent 503
	// jusqu'au prochain POST /api/products/refresh réussi.
	_ = products.FetchProducts(ctx)

	h := handlers.NewHandler(handlers.Dependencies{
		Gateway:           gw,
		Catalog:           products,
		Profiles:          profiles.NewService(gw),
		Carts:             cart.NewRegistry(backend.Store, backend.Broker),
		Flows:             checkout.NewFlows(),
		Search:            searcher,
		Media:             signer,
		WhatsAppRecipient: cfg.WhatsAppRecipient,
		AllowedOrigins:    cfg.CORSOrigins,
	})

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		if cfg.AppEnv == "production" {
			zap.L().Fatal("❌ SESSION_SECRET manquant")
		}
		sessionSecret = uuid.NewString()
		zap.L().Warn("⚠️ SESSION_SECRET absent, secret éphémère : les paniers anonymes ne survivront pas au redémarrage")
	}
	if cfg.BackendJWTSecret == "" {
		zap.L().Warn("⚠️ SUPABASE_JWT_SECRET absent : aucun utilisateur ne pourra s'authentifier")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	routes.RegisterRoutes(r, h, routes.Options{
		JWTSecret:   cfg.BackendJWTSecret,
		Sessions:    middleware.NewCookieStore(sessionSecret, cfg.AppEnv == "production"),
		Counter:     backend.Counter,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		zap.L().Info("🚀 Serveur Lera lancé", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("❌ Serveur HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("❌ Arrêt forcé", zap.Error(err))
	}
}
