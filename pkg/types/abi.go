package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AbiType names the static ABI types used by the Safe hashing structs.
type AbiType string

const (
	AbiTypeAddress AbiType = "address"
	AbiTypeUint256 AbiType = "uint256"
	AbiTypeUint8   AbiType = "uint8"
	AbiTypeBytes32 AbiType = "bytes32"
)

// AbiValue is one head word of an abi.encode call.
//
// Value must be common.Address for address, *big.Int for uint256,
// uint8 for uint8 and common.Hash for bytes32.
type AbiValue struct {
	Type  AbiType
	Value interface{}
}

func AddressValue(a common.Address) AbiValue {
	return AbiValue{Type: AbiTypeAddress, Value: a}
}

// Uint256Value encodes nil as zero.
func Uint256Value(v *big.Int) AbiValue {
	if v == nil {
		v = new(big.Int)
	}
	return AbiValue{Type: AbiTypeUint256, Value: v}
}

func Uint8Value(v uint8) AbiValue {
	return AbiValue{Type: AbiTypeUint8, Value: v}
}

func Bytes32Value(h common.Hash) AbiValue {
	return AbiValue{Type: AbiTypeBytes32, Value: h}
}
