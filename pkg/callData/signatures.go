package callData

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ERC20ABI lists the token calls recognised by default.
const ERC20ABI = `[
	{
		"type": "function",
		"name": "transfer",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "transferFrom",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "approve",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "balanceOf",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view"
	}
]`

// FunctionSignature is one entry of the selector table.
type FunctionSignature struct {
	// Name is the bare function name, e.g. "transfer".
	Name string
	// Signature is the canonical form hashed into the selector, e.g. "transfer(address,uint256)".
	Signature string
	Selector  [4]byte
	method    abi.Method
}

// SelectorHex returns the selector as 0x-prefixed lowercase hex.
func (f *FunctionSignature) SelectorHex() string {
	return hexutil.Encode(f.Selector[:])
}

// InputTypes returns the declared parameter types in order.
func (f *FunctionSignature) InputTypes() []string {
	out := make([]string, len(f.method.Inputs))
	for i, in := range f.method.Inputs {
		out[i] = in.Type.String()
	}
	return out
}

// SignatureTable maps 4-byte selectors to known functions. It is read-only
// once constructed.
type SignatureTable struct {
	bySelector map[[4]byte]*FunctionSignature
}

// NewSignatureTable builds a table from one or more ABI JSON fragments.
// Later fragments may not redefine a selector already present.
func NewSignatureTable(abiJSON ...string) (*SignatureTable, error) {
	table := &SignatureTable{bySelector: make(map[[4]byte]*FunctionSignature)}

	for i, fragment := range abiJSON {
		parsed, err := abi.JSON(strings.NewReader(fragment))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI fragment %d: %w", i, err)
		}
		for _, method := range parsed.Methods {
			var selector [4]byte
			copy(selector[:], method.ID)

			if existing, ok := table.bySelector[selector]; ok {
				return nil, fmt.Errorf("selector %s for %s already registered as %s",
					hexutil.Encode(selector[:]), method.Sig, existing.Signature)
			}
			table.bySelector[selector] = &FunctionSignature{
				Name:      method.RawName,
				Signature: method.Sig,
				Selector:  selector,
				method:    method,
			}
		}
	}

	return table, nil
}

var defaultSignatureTable = mustSignatureTable(ERC20ABI)

// DefaultSignatureTable returns the ERC-20 table.
func DefaultSignatureTable() *SignatureTable {
	return defaultSignatureTable
}

func mustSignatureTable(abiJSON ...string) *SignatureTable {
	table, err := NewSignatureTable(abiJSON...)
	if err != nil {
		panic(err)
	}
	return table
}

func (t *SignatureTable) Lookup(selector [4]byte) (*FunctionSignature, bool) {
	fn, ok := t.bySelector[selector]
	return fn, ok
}

func (t *SignatureTable) Len() int {
	return len(t.bySelector)
}

// Signatures returns all entries ordered by canonical signature.
func (t *SignatureTable) Signatures() []*FunctionSignature {
	out := make([]*FunctionSignature, 0, len(t.bySelector))
	for _, fn := range t.bySelector {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Signature < out[j].Signature
	})
	return out
}
