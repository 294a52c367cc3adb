package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Operation selects how the Safe executes the inner call.
type Operation uint8

const (
	OperationCall         Operation = 0
	OperationDelegateCall Operation = 1
)

func (o Operation) String() string {
	switch o {
	case OperationCall:
		return "call"
	case OperationDelegateCall:
		return "delegatecall"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// IsValid reports whether o is one of the operations the Safe contract accepts.
func (o Operation) IsValid() bool {
	return o == OperationCall || o == OperationDelegateCall
}

// ParseOperation converts the numeric Solidity enum value to an Operation.
func ParseOperation(v uint64) (Operation, error) {
	op := Operation(v)
	if v > 255 || !op.IsValid() {
		return 0, fmt.Errorf("unsupported operation %d: expected 0 (call) or 1 (delegatecall)", v)
	}
	return op, nil
}

// SafeTransaction is the SafeTx struct signed by Safe owners.
// Nil integer fields are encoded as zero.
type SafeTransaction struct {
	To             common.Address `json:"to"`
	Value          *big.Int       `json:"value"`
	Data           []byte         `json:"data"`
	Operation      Operation      `json:"operation"`
	SafeTxGas      *big.Int       `json:"safeTxGas"`
	BaseGas        *big.Int       `json:"baseGas"`
	GasPrice       *big.Int       `json:"gasPrice"`
	GasToken       common.Address `json:"gasToken"`
	RefundReceiver common.Address `json:"refundReceiver"`
	Nonce          *big.Int       `json:"nonce"`
}

// Validate checks that every integer fits an unsigned 256-bit word and the
// operation is known. All violations are reported together.
func (tx *SafeTransaction) Validate() error {
	if tx == nil {
		return fmt.Errorf("safe transaction cannot be nil")
	}
	var allErrors field.ErrorList
	allErrors = append(allErrors, validateUint256(field.NewPath("value"), tx.Value)...)
	allErrors = append(allErrors, validateUint256(field.NewPath("safeTxGas"), tx.SafeTxGas)...)
	allErrors = append(allErrors, validateUint256(field.NewPath("baseGas"), tx.BaseGas)...)
	allErrors = append(allErrors, validateUint256(field.NewPath("gasPrice"), tx.GasPrice)...)
	allErrors = append(allErrors, validateUint256(field.NewPath("nonce"), tx.Nonce)...)
	if !tx.Operation.IsValid() {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("operation"), uint8(tx.Operation), []string{"0", "1"}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// Domain is the EIP-712 domain of a single Safe deployment.
type Domain struct {
	ChainID           *big.Int       `json:"chainId"`
	VerifyingContract common.Address `json:"verifyingContract"`
}

// NewDomain is a convenience constructor for the common uint64 chain id case.
func NewDomain(chainID uint64, verifyingContract common.Address) *Domain {
	return &Domain{
		ChainID:           new(big.Int).SetUint64(chainID),
		VerifyingContract: verifyingContract,
	}
}

func (d *Domain) Validate() error {
	if d == nil {
		return fmt.Errorf("domain cannot be nil")
	}
	var allErrors field.ErrorList
	if d.ChainID == nil {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	} else {
		allErrors = append(allErrors, validateUint256(field.NewPath("chainId"), d.ChainID)...)
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// HashTriple holds the three digests computed for one Safe transaction.
type HashTriple struct {
	DomainHash  common.Hash `json:"domainHash"`
	MessageHash common.Hash `json:"messageHash"`
	FinalHash   common.Hash `json:"safeTxHash"`
}

func validateUint256(path *field.Path, v *big.Int) field.ErrorList {
	if v == nil {
		return nil
	}
	var errs field.ErrorList
	if v.Sign() < 0 {
		errs = append(errs, field.Invalid(path, v.String(), "must not be negative"))
	}
	if v.BitLen() > 256 {
		errs = append(errs, field.Invalid(path, v.String(), "must fit in 256 bits"))
	}
	return errs
}
