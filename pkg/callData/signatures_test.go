package callData

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSignatureTable(t *testing.T) {
	table := DefaultSignatureTable()
	require.Equal(t, 4, table.Len())

	expected := map[string]string{
		"approve(address,uint256)":              "0x095ea7b3",
		"balanceOf(address)":                    "0x70a08231",
		"transfer(address,uint256)":             "0xa9059cbb",
		"transferFrom(address,address,uint256)": "0x23b872dd",
	}
	for _, fn := range table.Signatures() {
		selector, ok := expected[fn.Signature]
		require.True(t, ok, "unexpected signature %s", fn.Signature)
		require.Equal(t, selector, fn.SelectorHex())
	}

	fn, ok := table.Lookup([4]byte{0x23, 0xb8, 0x72, 0xdd})
	require.True(t, ok)
	require.Equal(t, "transferFrom", fn.Name)
	require.Equal(t, []string{"address", "address", "uint256"}, fn.InputTypes())
}

func TestNewSignatureTable_Extension(t *testing.T) {
	const permitABI = `[{"type":"function","name":"increaseAllowance","inputs":[{"name":"spender","type":"address"},{"name":"addedValue","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}]`

	table, err := NewSignatureTable(ERC20ABI, permitABI)
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	d := NewDecoder(table)
	result := d.DecodeCall("0x39509351" +
		"0000000000000000000000008b4b268a9aa797fd60889e88ac7be9a0c4b37ff4" +
		"0000000000000000000000000000000000000000000000000000000000000001")
	require.True(t, result.Success)
	require.Equal(t, "increaseAllowance", result.Name)
	require.Equal(t, "1", result.Params[1].Value)

	// the default table is unaffected
	require.Empty(t, DecodeCall("0x39509351").Name)
}

func TestNewSignatureTable_Errors(t *testing.T) {
	_, err := NewSignatureTable("not json")
	require.Error(t, err)

	_, err = NewSignatureTable(ERC20ABI, ERC20ABI)
	require.ErrorContains(t, err, "already registered")
}

func TestNewDecoder_NilTable(t *testing.T) {
	require.Same(t, DefaultSignatureTable(), NewDecoder(nil).Table())
}
