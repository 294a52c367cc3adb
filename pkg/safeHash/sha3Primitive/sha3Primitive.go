package sha3Primitive

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// Sha3Primitive is an independent implementation of the hashing primitive
// built on x/crypto's legacy Keccak-256 and hand-laid 32 byte words.
type Sha3Primitive struct{}

func NewSha3Primitive() *Sha3Primitive {
	return &Sha3Primitive{}
}

func (p *Sha3Primitive) Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

func (p *Sha3Primitive) EncodeWords(values ...types.AbiValue) ([]byte, error) {
	out := make([]byte, 0, len(values)*wordSize)
	for i, v := range values {
		word, err := encodeWord(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, word[:]...)
	}
	return out, nil
}

func encodeWord(v types.AbiValue) ([wordSize]byte, error) {
	var word [wordSize]byte
	switch v.Type {
	case types.AbiTypeAddress:
		addr, ok := v.Value.(common.Address)
		if !ok {
			return word, fmt.Errorf("address value has type %T", v.Value)
		}
		copy(word[wordSize-common.AddressLength:], addr[:])
	case types.AbiTypeUint256:
		n, ok := v.Value.(*big.Int)
		if !ok {
			return word, fmt.Errorf("uint256 value has type %T", v.Value)
		}
		if n.Sign() < 0 {
			return word, fmt.Errorf("uint256 value %s is negative", n)
		}
		u, overflow := uint256.FromBig(n)
		if overflow {
			return word, fmt.Errorf("uint256 value %s overflows 256 bits", n)
		}
		word = u.Bytes32()
	case types.AbiTypeUint8:
		b, ok := v.Value.(uint8)
		if !ok {
			return word, fmt.Errorf("uint8 value has type %T", v.Value)
		}
		word[wordSize-1] = b
	case types.AbiTypeBytes32:
		h, ok := v.Value.(common.Hash)
		if !ok {
			return word, fmt.Errorf("bytes32 value has type %T", v.Value)
		}
		copy(word[:], h[:])
	default:
		return word, fmt.Errorf("unsupported abi type %q", v.Type)
	}
	return word, nil
}
