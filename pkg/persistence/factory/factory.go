// Package factory builds the hash history store selected in configuration.
package factory

import (
	"fmt"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/config"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/badger"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/memory"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/redis"
	"go.uber.org/zap"
)

// NewFromConfig opens the configured backend. StoreTypeNone (or an empty type)
// returns a nil store and no error: nothing is persisted.
func NewFromConfig(cfg *config.StoreConfig, logger *zap.Logger) (persistence.IHashPersistence, error) {
	if cfg == nil {
		return nil, nil
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid store configuration: %w", errs.ToAggregate())
	}

	switch cfg.Type {
	case "", config.StoreTypeNone:
		return nil, nil
	case config.StoreTypeMemory:
		return memory.NewMemoryPersistence(), nil
	case config.StoreTypeBadger:
		store, err := badger.NewBadgerPersistence(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreTypeRedis:
		store, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}
