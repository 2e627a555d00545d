package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/notify"
	"storefront_back_end/internal/rating"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/seed"
	"storefront_back_end/internal/storage"
	"storefront_back_end/internal/validation"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	if _, err := logger.Init(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Logger.Level,
		File:       cfg.Logger.File,
	}); err != nil {
		log.Fatalf("❌ Logger: %v", err)
	}
	defer zap.L().Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	conns, err := database.Connect(ctx, cfg)
	if err != nil {
		zap.L().Fatal("❌ Connexion aux bases", zap.Error(err))
	}

	app, err := auth.NewFirebaseApp(ctx, auth.Credentials{
		ProjectID:   cfg.Firebase.ProjectID,
		ClientEmail: cfg.Firebase.ClientEmail,
		PrivateKey:  cfg.Firebase.PrivateKey,
	})
	if err != nil {
		zap.L().Fatal("❌ Firebase", zap.Error(err))
	}

	ratings := rating.NewAggregator(conns.Store)
	reconciler := rating.NewReconciler(conns.Store, ratings)
	if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
		zap.L().Fatal("❌ RATING_RECONCILE_SCHEDULE invalide", zap.Error(err))
	}

	h := handlers.New(handlers.Deps{
		Store:    conns.Store,
		Ratings:  ratings,
		Search:   newIndexer(conns, cfg),
		Images:   newImageStore(ctx, conns, cfg),
		Notifier: newNotifier(cfg),
		Seed:     seed.NewClient(cfg.DummyJSONURL, nil),
		Validate: validation.New(),
		Debug:    cfg.IsDevelopment(),
	})

	// redis.Cmdable nil, pas un *redis.Client nil
	var limiter redis.Cmdable
	if conns.Redis != nil {
		limiter = conns.Redis
	}

	router := routes.NewRouter(routes.Deps{
		Handlers:      h,
		Auth:          middleware.NewResolver(app.Verifier(), conns.Store),
		Redis:         limiter,
		RatePerMinute: cfg.Redis.RatePerMinute,
		ClientURLs:    cfg.Server.ClientURLs,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("🚀 Serveur lancé", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("❌ Serveur HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("🛑 Arrêt en cours...")

	reconciler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("❌ Arrêt du serveur HTTP", zap.Error(err))
	}
	if err := conns.Close(shutdownCtx); err != nil {
		zap.L().Error("❌ Fermeture des connexions", zap.Error(err))
	}
	zap.L().Info("👋 Serveur arrêté")
}

func newIndexer(conns *database.Connections, cfg *config.Config) search.Indexer {
	if conns.Elastic == nil {
		return search.Noop{}
	}
	return search.NewElastic(conns.Elastic, cfg.Elastic.Index)
}

func newImageStore(ctx context.Context, conns *database.Connections, cfg *config.Config) storage.ImageStore {
	if conns.MinIO == nil {
		return storage.Disabled{}
	}
	s := storage.NewMinioStore(conns.MinIO, cfg.Minio.Bucket)
	if err := s.EnsureBucket(ctx); err != nil {
		zap.L().Warn("⚠️ Bucket MinIO indisponible, upload désactivé", zap.Error(err))
		return storage.Disabled{}
	}
	return s
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SMTP.Host == "" {
		zap.L().Info("⏸️ SMTP désactivé, pas de notifications mail")
		return notify.Noop{}
	}
	m, err := notify.NewMailer(notify.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		AdminEmail: cfg.SMTP.AdminEmail,
	})
	if err != nil {
		zap.L().Warn("⚠️ SMTP mal configuré, notifications désactivées", zap.Error(err))
		return notify.Noop{}
	}
	zap.L().Info("✅ Notifications mail activées", zap.String("host", cfg.SMTP.Host))
	return m
}
