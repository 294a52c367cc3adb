package persistence

import (
	"bytes"
	"math/big"
	"sort"
	"time"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// HashRecord is one computed hash triple together with the fields needed to
// recognise the transaction again.
type HashRecord struct {
	// ID uniquely identifies this computation.
	ID string `json:"id"`

	ChainID     *big.Int       `json:"chainId"`
	SafeAddress common.Address `json:"safeAddress"`
	Nonce       *big.Int       `json:"nonce"`

	To        common.Address  `json:"to"`
	Value     *big.Int        `json:"value"`
	Operation types.Operation `json:"operation"`

	// DataHash is keccak256 of the call data; the raw data is not stored.
	DataHash common.Hash `json:"dataHash"`

	Hashes types.HashTriple `json:"hashes"`

	// CreatedAt is the Unix timestamp of the computation.
	CreatedAt int64 `json:"createdAt"`
}

// NewHashRecord builds a record for a computed triple.
func NewHashRecord(domain *types.Domain, tx *types.SafeTransaction, triple *types.HashTriple) *HashRecord {
	return &HashRecord{
		ID:          uuid.New().String(),
		ChainID:     copyBig(domain.ChainID),
		SafeAddress: domain.VerifyingContract,
		Nonce:       copyBig(tx.Nonce),
		To:          tx.To,
		Value:       copyBig(tx.Value),
		Operation:   tx.Operation,
		DataHash:    crypto.Keccak256Hash(tx.Data),
		Hashes:      *triple,
		CreatedAt:   time.Now().Unix(),
	}
}

// Key is the storage key of the record.
func (r *HashRecord) Key() common.Hash {
	return r.Hashes.FinalHash
}

// Copy returns a deep copy.
func (r *HashRecord) Copy() *HashRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.ChainID = copyBig(r.ChainID)
	c.Nonce = copyBig(r.Nonce)
	c.Value = copyBig(r.Value)
	return &c
}

// RecordFilter narrows ListHashRecords. Zero fields match everything.
type RecordFilter struct {
	ChainID     *big.Int
	SafeAddress *common.Address
}

func (f *RecordFilter) Matches(r *HashRecord) bool {
	if f == nil {
		return true
	}
	if f.ChainID != nil && (r.ChainID == nil || f.ChainID.Cmp(r.ChainID) != 0) {
		return false
	}
	if f.SafeAddress != nil && *f.SafeAddress != r.SafeAddress {
		return false
	}
	return true
}

// SortHashRecords orders records by chain id, safe address, nonce, then creation time.
func SortHashRecords(records []*HashRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if c := cmpBig(a.ChainID, b.ChainID); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.SafeAddress[:], b.SafeAddress[:]); c != 0 {
			return c < 0
		}
		if c := cmpBig(a.Nonce, b.Nonce); c != 0 {
			return c < 0
		}
		return a.CreatedAt < b.CreatedAt
	})
}

func cmpBig(a, b *big.Int) int {
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b)
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
