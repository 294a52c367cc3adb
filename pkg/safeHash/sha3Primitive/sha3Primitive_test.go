package sha3Primitive

import (
	"math/big"
	"testing"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/safeHash/gethPrimitive"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestKeccak256MatchesGeth(t *testing.T) {
	p := NewSha3Primitive()

	inputs := [][]byte{
		{},
		[]byte("transfer(address,uint256)"),
		make([]byte, 135),
		make([]byte, 136),
		make([]byte, 1000),
	}
	for _, in := range inputs {
		require.Equal(t, crypto.Keccak256Hash(in), p.Keccak256(in))
	}

	// multiple chunks hash as their concatenation
	require.Equal(t, crypto.Keccak256Hash([]byte("abcdef")), p.Keccak256([]byte("abc"), []byte("def")))
	require.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", p.Keccak256().Hex())
}

func TestEncodeWordsMatchesGeth(t *testing.T) {
	values := []types.AbiValue{
		types.Bytes32Value(common.HexToHash("0xbb8310d486368db6bd6f849402fdd73ad53d316b5a4b2644ad6efe0f941286d8")),
		types.AddressValue(common.HexToAddress("0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4")),
		types.Uint256Value(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))),
		types.Uint8Value(1),
		types.Uint256Value(nil),
		types.Uint256Value(big.NewInt(60)),
	}

	ours, err := NewSha3Primitive().EncodeWords(values...)
	require.NoError(t, err)
	theirs, err := gethPrimitive.NewGethPrimitive().EncodeWords(values...)
	require.NoError(t, err)

	require.Len(t, ours, 32*len(values))
	require.Equal(t, theirs, ours)
}

func TestEncodeWordsLayout(t *testing.T) {
	encoded, err := NewSha3Primitive().EncodeWords(
		types.AddressValue(common.HexToAddress("0x00000000000000000000000000000000000000ff")),
		types.Uint8Value(1),
	)
	require.NoError(t, err)
	require.Len(t, encoded, 64)

	// addresses and small integers sit in the low-order bytes
	require.Equal(t, byte(0xff), encoded[31])
	require.Equal(t, make([]byte, 31), encoded[:31])
	require.Equal(t, byte(0x01), encoded[63])
	require.Equal(t, make([]byte, 31), encoded[32:63])
}

func TestEncodeWordsErrors(t *testing.T) {
	p := NewSha3Primitive()

	_, err := p.EncodeWords(types.AbiValue{Type: types.AbiTypeUint256, Value: big.NewInt(-1)})
	require.ErrorContains(t, err, "negative")

	_, err = p.EncodeWords(types.AbiValue{Type: types.AbiTypeUint256, Value: new(big.Int).Lsh(big.NewInt(1), 256)})
	require.ErrorContains(t, err, "overflows")

	_, err = p.EncodeWords(types.AbiValue{Type: types.AbiTypeAddress, Value: "0x1234"})
	require.ErrorContains(t, err, "argument 0")

	_, err = p.EncodeWords(types.AbiValue{Type: "bytes", Value: []byte{1}})
	require.ErrorContains(t, err, "unsupported abi type")
}
