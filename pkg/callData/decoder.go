// Package callData interprets the data field of a Safe transaction: it checks
// hex well-formedness, recovers ASCII text stored behind a 32-byte ABI offset
// word and names calls whose selector is in a small signature table.
//
// Problems with the input are reported inside the returned values, never as
// Go errors, so callers can print them next to the computed hashes.
package callData

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	hexPrefix = "0x"

	// embedded payloads start with a dynamic bytes offset/length word
	offsetWordSize = 32
	selectorSize   = 4

	// MaxFormattedLength is the number of characters Format keeps before truncating.
	MaxFormattedLength = 100
	ellipsis           = "..."
	errorPrefix        = "Decoding Error: "
)

const (
	ReasonEmpty       = "input is empty"
	ReasonNoPrefix    = "missing 0x prefix"
	ReasonInvalidHex  = "contains non-hexadecimal characters"
	ReasonOddLength   = "odd number of hex characters"
	ReasonTooShortFmt = "data too short: need at least %d bytes, got %d"
)

// ValidationResult reports the first rule a hex string violates, if any.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// DecodedParam is one positional argument of a recognised call.
type DecodedParam struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DecodedResult is the outcome of a decode operation.
//
// A recognised selector whose arguments fail to decode is still reported with
// Success set and Error describing the argument problem.
type DecodedResult struct {
	Success   bool           `json:"success"`
	Value     string         `json:"value,omitempty"`
	Error     string         `json:"error,omitempty"`
	Signature string         `json:"signature,omitempty"`
	Name      string         `json:"name,omitempty"`
	Params    []DecodedParam `json:"params,omitempty"`
}

func failure(reason string) *DecodedResult {
	return &DecodedResult{Success: false, Error: reason}
}

// Decoder decodes call data against a signature table. It holds no mutable
// state and may be shared.
type Decoder struct {
	table *SignatureTable
}

// NewDecoder returns a decoder over table; nil selects DefaultSignatureTable.
func NewDecoder(table *SignatureTable) *Decoder {
	if table == nil {
		table = DefaultSignatureTable()
	}
	return &Decoder{table: table}
}

var defaultDecoder = NewDecoder(nil)

func (d *Decoder) Table() *SignatureTable {
	return d.table
}

// Validate checks, in order: non-empty, 0x prefix, hex digits only, even length.
func Validate(hex string) ValidationResult {
	if hex == "" {
		return ValidationResult{Reason: ReasonEmpty}
	}
	if !strings.HasPrefix(hex, hexPrefix) {
		return ValidationResult{Reason: ReasonNoPrefix}
	}
	digits := hex[len(hexPrefix):]
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return ValidationResult{Reason: ReasonInvalidHex}
		}
	}
	if len(digits)%2 != 0 {
		return ValidationResult{Reason: ReasonOddLength}
	}
	return ValidationResult{Valid: true}
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// decodeValidated validates hex and requires at least minBytes of payload.
func decodeValidated(hex string, minBytes int) ([]byte, *DecodedResult) {
	if v := Validate(hex); !v.Valid {
		return nil, failure(v.Reason)
	}
	raw, err := hexutil.Decode(hex)
	if err != nil {
		return nil, failure(err.Error())
	}
	if len(raw) < minBytes {
		return nil, failure(fmt.Sprintf(ReasonTooShortFmt, minBytes, len(raw)))
	}
	return raw, nil
}

// DecodeEmbeddedASCII drops the leading 32-byte word and returns the rest as
// text with NUL padding removed and surrounding whitespace trimmed.
func (d *Decoder) DecodeEmbeddedASCII(hex string) *DecodedResult {
	raw, fail := decodeValidated(hex, offsetWordSize)
	if fail != nil {
		return fail
	}

	payload := raw[offsetWordSize:]
	if !utf8.Valid(payload) {
		return failure(fmt.Sprintf("embedded payload is not valid UTF-8: invalid sequence at byte %d", invalidUTF8Offset(payload)+offsetWordSize))
	}

	text := strings.ReplaceAll(string(payload), "\x00", "")
	return &DecodedResult{
		Success: true,
		Value:   strings.TrimSpace(text),
	}
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// DecodeCall identifies the 4-byte selector and, when it is known, decodes the
// static arguments that follow it.
func (d *Decoder) DecodeCall(hex string) *DecodedResult {
	raw, fail := decodeValidated(hex, selectorSize)
	if fail != nil {
		return fail
	}

	var selector [4]byte
	copy(selector[:], raw[:selectorSize])
	result := &DecodedResult{
		Success:   true,
		Signature: hexutil.Encode(selector[:]),
	}

	fn, ok := d.table.Lookup(selector)
	if !ok {
		result.Value = result.Signature
		return result
	}
	result.Name = fn.Name

	values, err := fn.method.Inputs.Unpack(raw[selectorSize:])
	if err != nil {
		result.Value = fn.Signature
		result.Error = fmt.Sprintf("failed to decode parameters for %s: %v", fn.Signature, err)
		return result
	}

	params := make([]DecodedParam, len(values))
	rendered := make([]string, len(values))
	for i, v := range values {
		in := fn.method.Inputs[i]
		params[i] = DecodedParam{
			Name:  in.Name,
			Type:  in.Type.String(),
			Value: formatParam(v),
		}
		rendered[i] = params[i].Value
	}
	result.Params = params
	result.Value = fmt.Sprintf("%s(%s)", fn.Name, strings.Join(rendered, ", "))
	return result
}

func formatParam(v interface{}) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case *big.Int:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Format renders a result for display.
func Format(result *DecodedResult) string {
	if result == nil {
		return errorPrefix + "no result"
	}
	if !result.Success {
		return errorPrefix + result.Error
	}
	if utf8.RuneCountInString(result.Value) > MaxFormattedLength {
		runes := []rune(result.Value)
		return string(runes[:MaxFormattedLength]) + ellipsis
	}
	return result.Value
}

// DecodeEmbeddedASCII uses the default ERC-20 decoder.
func DecodeEmbeddedASCII(hex string) *DecodedResult {
	return defaultDecoder.DecodeEmbeddedASCII(hex)
}

// DecodeCall uses the default ERC-20 decoder.
func DecodeCall(hex string) *DecodedResult {
	return defaultDecoder.DecodeCall(hex)
}
