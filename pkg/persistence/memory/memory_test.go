package memory

import (
	"testing"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/persistenceTest"
)

func TestMemoryPersistence(t *testing.T) {
	persistenceTest.RunSuite(t, func(t *testing.T) persistence.IHashPersistence {
		return NewMemoryPersistence()
	})
}
