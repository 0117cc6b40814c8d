package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	Database      DatabaseConfig
	Catalog       CatalogConfig
	Redis         RedisConfig
}

// DatabaseConfig points at the store that owns the registry and group tables.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// CatalogConfig points at the external merchant catalog. The catalog is an
// external source of truth; this service only ever reads from it, so it
// gets its own pool. The DSN must still resolve the same database as
// DATABASE_URL (or a read replica of it): the availability query joins
// the catalog table against the registry rows, so both must be visible
// on one connection. Leave it empty to reuse the primary DSN.
type CatalogConfig struct {
	URL      string
	MaxConns int32
}

// RedisConfig configures the optional catalog read cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CatalogCacheTTL bounds staleness of cached catalog reads. The cache is an
// explicit eventual-consistency layer, never a source of truth.
var CatalogCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("MERCHANT_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 16),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 4),
			ConnLifetime: envDuration("DATABASE_CONN_LIFETIME", 30*time.Minute),
		},
		Catalog: CatalogConfig{
			URL:      os.Getenv("CATALOG_DATABASE_URL"),
			MaxConns: int32(envInt("CATALOG_MAX_CONNS", 8)),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
