package txFile

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Request is a Safe transaction plus the domain it is hashed for, as written
// in a transaction file. Integers accept decimal or 0x-prefixed hex.
// Optional fields left out default to zero or the zero address.
type Request struct {
	ChainID     *math.HexOrDecimal256 `json:"chainId" yaml:"chainId"`
	SafeAddress *common.Address       `json:"safeAddress" yaml:"safeAddress"`

	To             *common.Address       `json:"to" yaml:"to"`
	Value          *math.HexOrDecimal256 `json:"value,omitempty" yaml:"value,omitempty"`
	Data           hexutil.Bytes         `json:"data,omitempty" yaml:"data,omitempty"`
	Operation      *uint64               `json:"operation,omitempty" yaml:"operation,omitempty"`
	SafeTxGas      *math.HexOrDecimal256 `json:"safeTxGas,omitempty" yaml:"safeTxGas,omitempty"`
	BaseGas        *math.HexOrDecimal256 `json:"baseGas,omitempty" yaml:"baseGas,omitempty"`
	GasPrice       *math.HexOrDecimal256 `json:"gasPrice,omitempty" yaml:"gasPrice,omitempty"`
	GasToken       *common.Address       `json:"gasToken,omitempty" yaml:"gasToken,omitempty"`
	RefundReceiver *common.Address       `json:"refundReceiver,omitempty" yaml:"refundReceiver,omitempty"`
	Nonce          *math.HexOrDecimal256 `json:"nonce" yaml:"nonce"`
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadRequestFile reads, parses and validates a transaction file.
func LoadRequestFile(path string) (*Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read transaction file %s", path)
	}
	req, err := ParseRequest(raw, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid transaction file %s", path)
	}
	return req, nil
}

// ParseRequest decodes and validates a request document.
func ParseRequest(raw []byte, format Format) (*Request, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("transaction document is empty")
	}

	var req Request
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &req); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML")
		}
	case FormatJSON, "":
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON")
		}
	default:
		return nil, errors.Errorf("unsupported format %q", format)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks required fields and that the result is hashable.
func (r *Request) Validate() error {
	var allErrors field.ErrorList

	if r.ChainID == nil {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	} else if (*big.Int)(r.ChainID).Sign() <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), (*big.Int)(r.ChainID).String(), "must be positive"))
	}
	if r.SafeAddress == nil {
		allErrors = append(allErrors, field.Required(field.NewPath("safeAddress"), "safeAddress is required"))
	}
	if r.To == nil {
		allErrors = append(allErrors, field.Required(field.NewPath("to"), "to is required"))
	}
	if r.Nonce == nil {
		allErrors = append(allErrors, field.Required(field.NewPath("nonce"), "nonce is required"))
	}
	if r.Operation != nil {
		if _, err := types.ParseOperation(*r.Operation); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("operation"), *r.Operation, err.Error()))
		}
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}

	if err := r.Transaction().Validate(); err != nil {
		return err
	}
	return r.Domain().Validate()
}

// Transaction converts the request to a SafeTransaction, applying defaults.
// The request must have passed Validate.
func (r *Request) Transaction() *types.SafeTransaction {
	tx := &types.SafeTransaction{
		Value:     bigOrZero(r.Value),
		Data:      common.CopyBytes(r.Data),
		SafeTxGas: bigOrZero(r.SafeTxGas),
		BaseGas:   bigOrZero(r.BaseGas),
		GasPrice:  bigOrZero(r.GasPrice),
		Nonce:     bigOrZero(r.Nonce),
	}
	if tx.Data == nil {
		tx.Data = []byte{}
	}
	if r.To != nil {
		tx.To = *r.To
	}
	if r.Operation != nil {
		tx.Operation = types.Operation(*r.Operation)
	}
	if r.GasToken != nil {
		tx.GasToken = *r.GasToken
	}
	if r.RefundReceiver != nil {
		tx.RefundReceiver = *r.RefundReceiver
	}
	return tx
}

func (r *Request) Domain() *types.Domain {
	d := &types.Domain{ChainID: bigOrZero(r.ChainID)}
	if r.SafeAddress != nil {
		d.VerifyingContract = *r.SafeAddress
	}
	return d
}

// NewRequest builds a request from core records, e.g. to write a file.
func NewRequest(domain *types.Domain, tx *types.SafeTransaction) *Request {
	op := uint64(tx.Operation)
	safe := domain.VerifyingContract
	to := tx.To
	gasToken := tx.GasToken
	refund := tx.RefundReceiver
	return &Request{
		ChainID:        toHexOrDecimal(domain.ChainID),
		SafeAddress:    &safe,
		To:             &to,
		Value:          toHexOrDecimal(tx.Value),
		Data:           common.CopyBytes(tx.Data),
		Operation:      &op,
		SafeTxGas:      toHexOrDecimal(tx.SafeTxGas),
		BaseGas:        toHexOrDecimal(tx.BaseGas),
		GasPrice:       toHexOrDecimal(tx.GasPrice),
		GasToken:       &gasToken,
		RefundReceiver: &refund,
		Nonce:          toHexOrDecimal(tx.Nonce),
	}
}

// ParseUint256 parses a decimal or 0x-hex CLI value. Empty input is zero.
func ParseUint256(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, errors.Errorf("invalid unsigned integer %q", s)
	}
	if v.Sign() < 0 {
		return nil, errors.Errorf("value %q must not be negative", s)
	}
	return v, nil
}

// ParseAddress parses a 0x-prefixed address. Empty input is the zero address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func bigOrZero(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}

func toHexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
