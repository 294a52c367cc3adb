package safeHash

import (
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// Older callers used the Safe contract method names. These wrappers keep them
// compiling; new code should use IHasher directly.

// Deprecated: use DomainHash.
func (h *SafeHasher) GetDomainHash() common.Hash {
	return h.DomainHash()
}

// Deprecated: use ComputeMessageHash.
func (h *SafeHasher) GetMessageHash(tx *types.SafeTransaction) (common.Hash, error) {
	return h.ComputeMessageHash(tx)
}

// Deprecated: use ComputeFinalHash.
func (h *SafeHasher) GetSafeTxHash(tx *types.SafeTransaction) (common.Hash, error) {
	return h.ComputeFinalHash(tx)
}
