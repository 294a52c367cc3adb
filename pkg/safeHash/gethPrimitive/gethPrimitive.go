package gethPrimitive

import (
	"fmt"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// GethPrimitive hashes with go-ethereum's keccak and packs with its ABI encoder.
type GethPrimitive struct {
	abiTypes map[types.AbiType]abi.Type
}

func NewGethPrimitive() *GethPrimitive {
	abiTypes := make(map[types.AbiType]abi.Type)
	for _, t := range []types.AbiType{
		types.AbiTypeAddress,
		types.AbiTypeUint256,
		types.AbiTypeUint8,
		types.AbiTypeBytes32,
	} {
		// the four names are all valid elementary types
		parsed, _ := abi.NewType(string(t), "", nil)
		abiTypes[t] = parsed
	}
	return &GethPrimitive{abiTypes: abiTypes}
}

func (p *GethPrimitive) Keccak256(data ...[]byte) common.Hash {
	return crypto.Keccak256Hash(data...)
}

func (p *GethPrimitive) EncodeWords(values ...types.AbiValue) ([]byte, error) {
	arguments := make(abi.Arguments, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for i, v := range values {
		t, ok := p.abiTypes[v.Type]
		if !ok {
			return nil, fmt.Errorf("argument %d: unsupported abi type %q", i, v.Type)
		}
		arguments = append(arguments, abi.Argument{Type: t})
		args = append(args, v.Value)
	}

	encoded, err := arguments.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack arguments: %w", err)
	}
	return encoded, nil
}
