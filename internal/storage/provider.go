package storage

import (
	"context"
	"fmt"
	"signin/internal/providers"
	"signin/internal/storage/interfaces"
	"signin/internal/structures"
)

// NewCompressor returns zstd only for the file backend; the other drivers
// store values uncompressed.
func NewCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	fileDriver := conf.Storage.Driver == "" || conf.Storage.Driver == "file"
	if !conf.Storage.Compress || !fileDriver {
		return PlainCompression{}, nil
	}
	return NewZstdCompressor()
}

// NewKeyValueStore opens the backend named by storage.driver.
func NewKeyValueStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.KeyValueStore, error) {
	switch conf.Storage.Driver {
	case "", "file":
		logger.Infof(providers.TypeApp, "Using file storage at %s (compress=%t)", conf.Storage.FilePath, conf.Storage.Compress)
		return NewFileStore(conf.Storage.FilePath, compressor, logger)
	case "sqlite":
		logger.Infof(providers.TypeApp, "Using sqlite storage at %s", conf.Storage.SQLitePath)
		return NewSQLiteStore(conf.Storage.SQLitePath)
	case "redis":
		logger.Infof(providers.TypeApp, "Using redis storage at %s", conf.Storage.RedisAddr)
		return NewRedisStore(context.Background(), conf.Storage.RedisAddr, conf.Storage.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
