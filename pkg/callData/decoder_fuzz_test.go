package callData

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func FuzzValidate(f *testing.F) {
	seeds := []string{"", "0x", "0x00", "0xabcdef", "0xabc", "0xzz", "abcdef", transferCall}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v := Validate(input)
		if v.Valid != (v.Reason == "") {
			t.Fatalf("valid=%v with reason %q", v.Valid, v.Reason)
		}
		if v.Valid {
			if _, err := hexutil.Decode(input); err != nil {
				t.Fatalf("validated input %q does not decode: %v", input, err)
			}
		}
	})
}

func FuzzDecodeCall(f *testing.F) {
	f.Add(transferCall)
	f.Add("0xa9059cbb")
	f.Add("0xdeadbeef")
	f.Add("0x12")

	f.Fuzz(func(t *testing.T, input string) {
		result := DecodeCall(input)
		if !Validate(input).Valid && result.Success {
			t.Fatalf("invalid input %q decoded successfully", input)
		}
		if result.Success && len(result.Signature) != 10 {
			t.Fatalf("unexpected signature %q", result.Signature)
		}
		_ = Format(result)
		_ = Format(DecodeEmbeddedASCII(input))
	})
}
