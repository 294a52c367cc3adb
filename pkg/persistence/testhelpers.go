package persistence

import (
	"math/big"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NewTestHashRecord returns a deterministic record for store tests.
func NewTestHashRecord(chainID uint64, safe string, nonce int64) *HashRecord {
	domain := types.NewDomain(chainID, common.HexToAddress(safe))
	tx := &types.SafeTransaction{
		To:    common.HexToAddress("0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4"),
		Value: big.NewInt(nonce * 1000),
		Data:  []byte{0xa9, 0x05, 0x9c, 0xbb},
		Nonce: big.NewInt(nonce),
	}
	seed := append(domain.VerifyingContract.Bytes(), big.NewInt(int64(chainID)).Bytes()...)
	seed = append(seed, tx.Nonce.Bytes()...)
	triple := &types.HashTriple{
		DomainHash:  crypto.Keccak256Hash([]byte("domain"), seed),
		MessageHash: crypto.Keccak256Hash([]byte("message"), seed),
		FinalHash:   crypto.Keccak256Hash([]byte("final"), seed),
	}
	return NewHashRecord(domain, tx, triple)
}
