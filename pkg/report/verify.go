package report

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MatchKind names which hash an expected value matched.
type MatchKind string

const (
	MatchNone    MatchKind = "none"
	MatchFinal   MatchKind = "safeTxHash"
	MatchMessage MatchKind = "messageHash"
)

// Verification is the result of comparing a user supplied hash with a triple.
type Verification struct {
	Expected common.Hash `json:"expected"`
	Match    MatchKind   `json:"match"`
}

func (v *Verification) Matched() bool {
	return v.Match != MatchNone
}

func (v *Verification) String() string {
	switch v.Match {
	case MatchFinal:
		return fmt.Sprintf("MATCH: %s equals the safe transaction hash", v.Expected.Hex())
	case MatchMessage:
		return fmt.Sprintf("MATCH: %s equals the message hash", v.Expected.Hex())
	default:
		return fmt.Sprintf("MISMATCH: %s matches neither the safe transaction hash nor the message hash", v.Expected.Hex())
	}
}

// ParseExpectedHash accepts a 32-byte hex hash in any letter case, with or
// without the 0x prefix.
func ParseExpectedHash(expected string) (common.Hash, error) {
	s := strings.TrimSpace(expected)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode("0x" + strings.ToLower(s[2:]))
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid expected hash %q: %w", expected, err)
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid expected hash %q: need %d bytes, got %d", expected, common.HashLength, len(raw))
	}
	return common.BytesToHash(raw), nil
}

// Compare checks expected against the final hash first and then the message
// hash, which some signing devices display instead.
func Compare(expected string, triple *types.HashTriple) (*Verification, error) {
	if triple == nil {
		return nil, fmt.Errorf("no hashes to compare against")
	}
	hash, err := ParseExpectedHash(expected)
	if err != nil {
		return nil, err
	}

	v := &Verification{Expected: hash, Match: MatchNone}
	switch {
	case hash == triple.FinalHash:
		v.Match = MatchFinal
	case hash == triple.MessageHash:
		v.Match = MatchMessage
	}
	return v, nil
}
