package layoutcache

import (
	"context"
	"fmt"
	"os"
)

// Backend names a cache implementation
type Backend string

const (
	BackendNone     Backend = "none"
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendS3       Backend = "s3"
)

// CacheConfig selects and configures a backend. Credentials for postgres and
// s3 fall back to ATLAS_CACHE_DSN, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
type CacheConfig struct {
	Backend  Backend `yaml:"backend" validate:"omitempty,oneof=none memory file sqlite postgres s3"`
	Dir      string  `yaml:"dir" validate:"required_if=Backend file"`
	Path     string  `yaml:"path" validate:"required_if=Backend sqlite"`
	DSN      string  `yaml:"dsn"`
	Bucket   string  `yaml:"bucket" validate:"required_if=Backend s3"`
	Prefix   string  `yaml:"prefix"`
	Region   string  `yaml:"region"`
	Endpoint string  `yaml:"endpoint" validate:"omitempty,url"`
}

// Open builds the configured cache. It returns a nil Cache for the none
// backend.
func Open(ctx context.Context, cfg CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		return NewFileCache(cfg.Dir)
	case BackendSQLite:
		return NewSQLiteCache(ctx, cfg.Path)
	case BackendPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = os.Getenv("ATLAS_CACHE_DSN")
		}
		if dsn == "" {
			return nil, fmt.Errorf("postgres layout cache needs a dsn or ATLAS_CACHE_DSN")
		}
		return NewPGCache(ctx, dsn)
	case BackendS3:
		return NewS3Cache(ctx, S3Options{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	default:
		return nil, fmt.Errorf("unknown layout cache backend %q", cfg.Backend)
	}
}
