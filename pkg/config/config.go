package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	CORS     CORSConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Commerce CommerceConfig
	Cart     CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validateBackend(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
}

type CommerceConfig struct {
	BaseURL         string        `envconfig:"STOREFRONT_COMMERCE_BASE_URL" required:"true"`
	ConsumerKey     string        `envconfig:"STOREFRONT_COMMERCE_CONSUMER_KEY"`
	ConsumerSecret  string        `envconfig:"STOREFRONT_COMMERCE_CONSUMER_SECRET"`
	RequestTimeout  time.Duration `envconfig:"STOREFRONT_COMMERCE_REQUEST_TIMEOUT" default:"10s"`
	RetryMaxAttempt uint64        `envconfig:"STOREFRONT_COMMERCE_RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBackoff    time.Duration `envconfig:"STOREFRONT_COMMERCE_RETRY_BACKOFF" default:"250ms"`
}

type CartConfig struct {
	StorageBackend string        `envconfig:"STOREFRONT_CART_STORAGE_BACKEND" default:"redis"`
	SnapshotTTL    time.Duration `envconfig:"STOREFRONT_CART_SNAPSHOT_TTL" default:"720h"`
	FileDir        string        `envconfig:"STOREFRONT_CART_FILE_DIR" default:"./data/carts"`
}

func (c CartConfig) Backend() string {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend))
}

func (c *CartConfig) validateBackend() error {
	switch c.Backend() {
	case CartBackendMemory, CartBackendFile, CartBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown cart storage backend %q", c.StorageBackend)
}
