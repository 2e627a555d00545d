// Package database ouvre les connexions externes au démarrage et les referme à l'arrêt.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/store/memstore"
	"storefront_back_end/internal/store/mongostore"
)

// Connections regroupe les handles; un champ nil signifie intégration désactivée
type Connections struct {
	Store   store.Store
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// --- Initialisation ---
func Connect(ctx context.Context, cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	// 1. Document store
	st, err := connectStore(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	conns.Store = st

	// 2. Redis (rate limiting)
	conns.Redis = connectRedis(ctx, cfg.Redis)

	// 3. Elasticsearch
	conns.Elastic = connectElastic(cfg.Elastic)

	// 4. MinIO
	if conns.MinIO, err = connectMinIO(cfg.Minio); err != nil {
		zap.L().Warn("⚠️ MinIO non configuré", zap.Error(err))
	}

	zap.L().Info("✅ Connexions initialisées")
	return conns, nil
}

func connectStore(ctx context.Context, cfg config.MongoConfig) (store.Store, error) {
	if cfg.Driver == config.DriverMemory {
		zap.L().Warn("⚠️ DB_DRIVER=memory: les données ne survivent pas au redémarrage")
		return memstore.New(), nil
	}
	st, err := mongostore.Connect(ctx, cfg.URI, cfg.Database, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("❌ connexion MongoDB: %w", err)
	}
	return st, nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		zap.L().Info("⏸️ Redis désactivé, pas de rate limiting")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       0,
	})
	// injoignable: on garde le client, le rate limit laisse passer
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("⚠️ Redis injoignable au démarrage", zap.String("addr", cfg.Addr), zap.Error(err))
		return client
	}
	zap.L().Info("✅ Connecté à Redis", zap.String("addr", cfg.Addr))
	return client
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticConfig) *elasticsearch.Client {
	if cfg.URL == "" {
		zap.L().Info("⏸️ Elasticsearch désactivé, recherche via le store")
		return nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		zap.L().Warn("⚠️ Erreur création client Elasticsearch", zap.Error(err))
		return nil
	}

	res, err := client.Info()
	if err != nil {
		zap.L().Warn("⚠️ Erreur connexion Elasticsearch", zap.Error(err))
		return nil
	}
	defer res.Body.Close()
	if res.IsError() {
		zap.L().Warn("⚠️ Elasticsearch a répondu en erreur", zap.String("status", res.Status()))
		return nil
	}

	zap.L().Info("✅ Connecté à Elasticsearch", zap.String("url", cfg.URL))
	return client
}

// =============================================
// MINIO
// =============================================
func connectMinIO(cfg config.MinioConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		zap.L().Info("⏸️ MinIO désactivé, upload d'images indisponible")
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("✅ Client MinIO prêt", zap.String("endpoint", cfg.Endpoint))
	return client, nil
}

// Close referme tout ce qui a été ouvert
func (c *Connections) Close(ctx context.Context) error {
	var errs []error
	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
		zap.L().Info("🔌 Store fermé")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
		zap.L().Info("🔌 Redis fermé")
	}
	return errors.Join(errs...)
}
