// Package safeHash computes the EIP-712 digests a Safe owner signs for a SafeTx.
//
// The encoding mirrors Safe.sol (v1.3.0+): the domain separator binds the chain id
// and the Safe address, the struct hash covers the ten SafeTx fields, and the
// final hash is keccak256(0x19 || 0x01 || domainSeparator || safeTxStructHash).
package safeHash

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

const (
	DomainTypeString = "EIP712Domain(uint256 chainId,address verifyingContract)"
	SafeTxTypeString = "SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"
)

// EIP-191 version byte 0x01 (structured data) behind the 0x19 prefix.
var eip712Prefix = []byte{0x19, 0x01}

var (
	ErrInvalidDomain      = errors.New("invalid safe domain")
	ErrInvalidTransaction = errors.New("invalid safe transaction")
)

// IPrimitive provides keccak256 and static ABI word encoding.
// Implementations must be safe for concurrent use.
type IPrimitive interface {
	// Keccak256 hashes the concatenation of data.
	Keccak256(data ...[]byte) common.Hash

	// EncodeWords produces abi.encode(values...) for static types only.
	EncodeWords(values ...types.AbiValue) ([]byte, error)
}

// IHasher computes Safe transaction hashes for a single domain.
type IHasher interface {
	// ComputeMessageHash returns the SafeTx struct hash.
	ComputeMessageHash(tx *types.SafeTransaction) (common.Hash, error)

	// ComputeFinalHash returns the EIP-712 digest shown on signing devices.
	ComputeFinalHash(tx *types.SafeTransaction) (common.Hash, error)

	// GetAllHashes returns the domain, message and final hashes together.
	GetAllHashes(tx *types.SafeTransaction) (*types.HashTriple, error)

	// DomainHash returns the cached domain separator.
	DomainHash() common.Hash

	// Domain returns a copy of the domain the hasher was built for.
	Domain() *types.Domain
}

// SafeHasher is immutable after construction and can be shared between goroutines.
type SafeHasher struct {
	primitive      IPrimitive
	domain         types.Domain
	domainTypeHash common.Hash
	safeTxTypeHash common.Hash
	domainHash     common.Hash
}

var _ IHasher = (*SafeHasher)(nil)

// NewSafeHasher validates the domain and caches the type hashes and domain separator.
func NewSafeHasher(domain *types.Domain, primitive IPrimitive) (*SafeHasher, error) {
	if primitive == nil {
		return nil, fmt.Errorf("hash primitive cannot be nil")
	}
	if err := domain.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}

	h := &SafeHasher{
		primitive: primitive,
		domain: types.Domain{
			ChainID:           new(big.Int).Set(domain.ChainID),
			VerifyingContract: domain.VerifyingContract,
		},
		domainTypeHash: primitive.Keccak256([]byte(DomainTypeString)),
		safeTxTypeHash: primitive.Keccak256([]byte(SafeTxTypeString)),
	}

	encoded, err := primitive.EncodeWords(
		types.Bytes32Value(h.domainTypeHash),
		types.Uint256Value(h.domain.ChainID),
		types.AddressValue(h.domain.VerifyingContract),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain: %w", err)
	}
	h.domainHash = primitive.Keccak256(encoded)

	return h, nil
}

func (h *SafeHasher) DomainHash() common.Hash {
	return h.domainHash
}

func (h *SafeHasher) Domain() *types.Domain {
	return &types.Domain{
		ChainID:           new(big.Int).Set(h.domain.ChainID),
		VerifyingContract: h.domain.VerifyingContract,
	}
}

// DomainTypeHash returns keccak256 of DomainTypeString.
func (h *SafeHasher) DomainTypeHash() common.Hash {
	return h.domainTypeHash
}

// SafeTxTypeHash returns keccak256 of SafeTxTypeString.
func (h *SafeHasher) SafeTxTypeHash() common.Hash {
	return h.safeTxTypeHash
}

func (h *SafeHasher) ComputeMessageHash(tx *types.SafeTransaction) (common.Hash, error) {
	if err := tx.Validate(); err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	// bytes members are hashed before encoding, as in Safe.encodeTransactionData
	dataHash := h.primitive.Keccak256(tx.Data)

	encoded, err := h.primitive.EncodeWords(
		types.Bytes32Value(h.safeTxTypeHash),
		types.AddressValue(tx.To),
		types.Uint256Value(tx.Value),
		types.Bytes32Value(dataHash),
		types.Uint8Value(uint8(tx.Operation)),
		types.Uint256Value(tx.SafeTxGas),
		types.Uint256Value(tx.BaseGas),
		types.Uint256Value(tx.GasPrice),
		types.AddressValue(tx.GasToken),
		types.AddressValue(tx.RefundReceiver),
		types.Uint256Value(tx.Nonce),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode safe transaction: %w", err)
	}

	return h.primitive.Keccak256(encoded), nil
}

func (h *SafeHasher) ComputeFinalHash(tx *types.SafeTransaction) (common.Hash, error) {
	messageHash, err := h.ComputeMessageHash(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return h.finalHash(messageHash), nil
}

func (h *SafeHasher) GetAllHashes(tx *types.SafeTransaction) (*types.HashTriple, error) {
	messageHash, err := h.ComputeMessageHash(tx)
	if err != nil {
		return nil, err
	}
	return &types.HashTriple{
		DomainHash:  h.domainHash,
		MessageHash: messageHash,
		FinalHash:   h.finalHash(messageHash),
	}, nil
}

func (h *SafeHasher) finalHash(messageHash common.Hash) common.Hash {
	return h.primitive.Keccak256(eip712Prefix, h.domainHash[:], messageHash[:])
}
