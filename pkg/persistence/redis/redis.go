package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key layout in Redis
const (
	keyPrefixHashRecord  = "safehash:record:"
	keySchemaVersion     = "safehash:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Redis has no ordered prefix scan, so record keys are tracked in a set
	keySetHashRecords = "safehash:records:index"

	operationTimeout = 5 * time.Second
)

// RedisPersistence shares hash history between machines through a Redis server.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

var _ persistence.IHashPersistence = (*RedisPersistence)(nil)

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "team-a:" gives
	// "team-a:safehash:record:0x...".
	KeyPrefix string
}

// NewRedisPersistence connects, pings and initializes the schema marker.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Debugw("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

func (r *RedisPersistence) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisPersistence) recordKey(safeTxHash common.Hash) string {
	return r.prefixKey(keyPrefixHashRecord + safeTxHash.Hex())
}

func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}
	return nil
}

// SaveHashRecord writes the record and its index entry in one transaction.
func (r *RedisPersistence) SaveHashRecord(record *persistence.HashRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil HashRecord")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalHashRecord(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.recordKey(record.Key()), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetHashRecords), record.Key().Hex())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save HashRecord: %w", err)
	}
	return nil
}

// LoadHashRecord returns nil when the hash is unknown.
func (r *RedisPersistence) LoadHashRecord(safeTxHash common.Hash) (*persistence.HashRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.recordKey(safeTxHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load HashRecord: %w", err)
	}

	return persistence.UnmarshalHashRecord(data)
}

// ListHashRecords reads every indexed record. Index entries whose record is
// gone or unreadable are logged and skipped.
func (r *RedisPersistence) ListHashRecords(filter *persistence.RecordFilter) ([]*persistence.HashRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	members, err := r.client.SMembers(ctx, r.prefixKey(keySetHashRecords)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read HashRecord index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = r.recordKey(common.HexToHash(member))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list HashRecords: %w", err)
	}

	var records []*persistence.HashRecord
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			r.logger.Sugar().Warnw("Indexed HashRecord missing, skipping", "key", keys[i])
			continue
		}
		record, err := persistence.UnmarshalHashRecord([]byte(raw))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal HashRecord, skipping", "key", keys[i], "error", err)
			continue
		}
		if filter.Matches(record) {
			records = append(records, record)
		}
	}

	persistence.SortHashRecords(records)
	return records, nil
}

// DeleteHashRecord removes the record and its index entry. Idempotent.
func (r *RedisPersistence) DeleteHashRecord(safeTxHash common.Hash) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.recordKey(safeTxHash))
	pipe.SRem(ctx, r.prefixKey(keySetHashRecords), safeTxHash.Hex())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete HashRecord: %w", err)
	}
	return nil
}

// Close closes the client. Idempotent.
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Debug("Redis persistence closed")
	return nil
}

// HealthCheck pings the server and checks the schema marker.
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	return nil
}
