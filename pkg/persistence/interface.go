package persistence

import "github.com/ethereum/go-ethereum/common"

// IHashPersistence stores computed Safe transaction hashes so a later run can
// cross-check a hash against what was computed before.
// All implementations must be thread-safe.
//
// The interface supports:
// - Hash record management (save, load, list, delete), keyed by the final safeTxHash
// - Lifecycle management (close, health check)
type IHashPersistence interface {
	// SaveHashRecord persists a record under its final hash.
	// Saving the same hash again overwrites the previous record (idempotent).
	SaveHashRecord(record *HashRecord) error

	// LoadHashRecord retrieves a record by its final hash.
	// Returns nil if the record doesn't exist, error only on storage failure.
	LoadHashRecord(safeTxHash common.Hash) (*HashRecord, error)

	// ListHashRecords returns records matching filter (nil matches all), sorted
	// by chain id, safe address, nonce and creation time.
	ListHashRecords(filter *RecordFilter) ([]*HashRecord, error)

	// DeleteHashRecord removes a record. Idempotent.
	DeleteHashRecord(safeTxHash common.Hash) error

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
