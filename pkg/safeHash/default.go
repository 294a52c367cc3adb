package safeHash

import (
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/safeHash/gethPrimitive"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/safeHash/sha3Primitive"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
)

type PrimitiveType string

const (
	PrimitiveTypeGeth PrimitiveType = "geth"
	PrimitiveTypeSha3 PrimitiveType = "sha3"
)

// NewPrimitive returns the primitive registered under name. An empty name selects geth.
func NewPrimitive(name PrimitiveType) (IPrimitive, error) {
	switch name {
	case "", PrimitiveTypeGeth:
		return gethPrimitive.NewGethPrimitive(), nil
	case PrimitiveTypeSha3:
		return sha3Primitive.NewSha3Primitive(), nil
	default:
		return nil, &UnsupportedPrimitiveError{Name: string(name)}
	}
}

// NewDefaultHasher builds a SafeHasher backed by go-ethereum.
func NewDefaultHasher(domain *types.Domain) (*SafeHasher, error) {
	return NewSafeHasher(domain, gethPrimitive.NewGethPrimitive())
}

type UnsupportedPrimitiveError struct {
	Name string
}

func (e *UnsupportedPrimitiveError) Error() string {
	return "unsupported hash primitive: " + e.Name + " (expected geth or sha3)"
}
