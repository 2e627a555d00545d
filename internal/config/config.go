package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type ServerConfig struct {
	Env        string
	Port       string
	ClientURLs []string
}

type MongoConfig struct {
	Driver   string
	URI      string
	Database string
	Timeout  time.Duration
}

type FirebaseConfig struct {
	ProjectID   string
	PrivateKey  string
	ClientEmail string
}

type RedisConfig struct {
	Addr          string
	Password      string
	RatePerMinute int
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

type LoggerConfig struct {
	Level string
	File  string
}

type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	Elastic  ElasticConfig
	Minio    MinioConfig
	SMTP     SMTPConfig
	Logger   LoggerConfig

	DummyJSONURL      string
	ReconcileSchedule string
}

// Load charge .env si présent puis lit l'environnement
func Load() (*Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv lit la configuration sans la valider
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Env:        getString("APP_ENV", "development"),
			Port:       getString("PORT", "5000"),
			ClientURLs: splitList(getString("CLIENT_URL", "http://localhost:5173")),
		},
		Mongo: MongoConfig{
			Driver:   strings.ToLower(getString("DB_DRIVER", DriverMongo)),
			URI:      os.Getenv("MONGODB_URI"),
			Database: getString("MONGODB_DATABASE", "storefront"),
			Timeout:  getDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Firebase: FirebaseConfig{
			ProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
			// la clé arrive de .env avec des \n littéraux
			PrivateKey:  strings.ReplaceAll(os.Getenv("FIREBASE_PRIVATE_KEY"), `\n`, "\n"),
			ClientEmail: os.Getenv("FIREBASE_CLIENT_EMAIL"),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			RatePerMinute: getInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getString("ELASTIC_INDEX", "products"),
		},
		Minio: MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getString("MINIO_BUCKET", "storefront-images"),
			UseSSL:    getBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getInt("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getString("MAIL_FROM", "noreply@storefront.local"),
			AdminEmail: os.Getenv("ADMIN_EMAIL"),
		},
		Logger: LoggerConfig{
			Level: getString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		DummyJSONURL:      getString("DUMMYJSON_URL", "https://dummyjson.com"),
		ReconcileSchedule: getStringAllowEmpty("RATING_RECONCILE_SCHEDULE", "@every 1h"),
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Mongo.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when DB_DRIVER=mongo"))
		}
	case DriverMemory:
	default:
		errs = append(errs, errors.New("DB_DRIVER must be mongo or memory"))
	}
	if c.Firebase.ProjectID == "" {
		errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func (c *Config) IsDevelopment() bool { return c.Server.Env == "development" }

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getStringAllowEmpty distingue variable absente (défaut) et variable vide (désactivé)
func getStringAllowEmpty(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return strings.TrimSpace(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, v, def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// getDuration accepte "10s", "1m" ou un nombre nu de secondes
func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := cast.ToIntE(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
