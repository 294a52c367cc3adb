package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
)

// MemoryPersistence is an in-memory implementation of IHashPersistence.
//
// All data is lost when the process exits. Thread-safe using sync.RWMutex.
// Records are deep copied in and out to prevent external mutation.
type MemoryPersistence struct {
	mu      sync.RWMutex
	records map[common.Hash]*persistence.HashRecord
	closed  bool
}

var _ persistence.IHashPersistence = (*MemoryPersistence)(nil)

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		records: make(map[common.Hash]*persistence.HashRecord),
	}
}

// SaveHashRecord persists a hash record.
func (m *MemoryPersistence) SaveHashRecord(record *persistence.HashRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil HashRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.records[record.Key()] = record.Copy()
	return nil
}

// LoadHashRecord retrieves a hash record by final hash.
func (m *MemoryPersistence) LoadHashRecord(safeTxHash common.Hash) (*persistence.HashRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	record, exists := m.records[safeTxHash]
	if !exists {
		return nil, nil // Not found is not an error
	}
	return record.Copy(), nil
}

// ListHashRecords returns matching records in canonical order.
func (m *MemoryPersistence) ListHashRecords(filter *persistence.RecordFilter) ([]*persistence.HashRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	result := make([]*persistence.HashRecord, 0, len(m.records))
	for _, record := range m.records {
		if filter.Matches(record) {
			result = append(result, record.Copy())
		}
	}
	persistence.SortHashRecords(result)

	return result, nil
}

// DeleteHashRecord removes a hash record.
func (m *MemoryPersistence) DeleteHashRecord(safeTxHash common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.records, safeTxHash)
	return nil
}

// Close marks the persistence layer as closed.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}
	return nil
}
