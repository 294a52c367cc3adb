package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalHashRecord serializes a HashRecord to JSON bytes.
func MarshalHashRecord(record *HashRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot marshal nil HashRecord")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal HashRecord to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalHashRecord deserializes a HashRecord from JSON bytes.
func UnmarshalHashRecord(data []byte) (*HashRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var record HashRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to HashRecord: %w", err)
	}

	return &record, nil
}
