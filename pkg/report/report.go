// Package report renders computed Safe hashes for humans comparing them
// against what a hardware wallet or the Safe UI displays.
package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/callData"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/config"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// Report is everything printed for one transaction.
type Report struct {
	ChainID      *big.Int                `json:"chainId"`
	Network      string                  `json:"network"`
	NativeSymbol string                  `json:"nativeSymbol"`
	SafeAddress  common.Address          `json:"safeAddress"`
	Transaction  *types.SafeTransaction  `json:"transaction"`
	Hashes       *types.HashTriple       `json:"hashes"`
	DecodedCall  *callData.DecodedResult `json:"decodedCall,omitempty"`
}

// New assembles a report. Call data is decoded against decoder, or the
// default ERC-20 table when decoder is nil. Empty data is not decoded.
func New(domain *types.Domain, tx *types.SafeTransaction, hashes *types.HashTriple, decoder *callData.Decoder) *Report {
	if decoder == nil {
		decoder = callData.NewDecoder(nil)
	}

	r := &Report{
		ChainID:      new(big.Int).Set(domain.ChainID),
		Network:      "unknown",
		NativeSymbol: "ETH",
		SafeAddress:  domain.VerifyingContract,
		Transaction:  tx,
		Hashes:       hashes,
	}
	if domain.ChainID.IsUint64() {
		id := config.ChainId(domain.ChainID.Uint64())
		r.Network = string(config.GetChainName(id))
		r.NativeSymbol = config.GetNativeCurrencySymbol(id)
	}
	if len(tx.Data) > 0 {
		r.DecodedCall = decoder.DecodeCall(hexutil.Encode(tx.Data))
	}
	return r
}

// FormatEther renders wei as a decimal amount of the native currency.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// Write prints the transaction summary followed by the three hashes.
func (r *Report) Write(w io.Writer) error {
	tx := r.Transaction
	data := "0x"
	if len(tx.Data) > 0 {
		data = hexutil.Encode(tx.Data)
	}

	var b strings.Builder
	b.WriteString("Transaction Data\n")
	fmt.Fprintf(&b, "  Network:          %s (chain id %s)\n", r.Network, r.ChainID)
	fmt.Fprintf(&b, "  Safe address:     %s\n", r.SafeAddress.Hex())
	fmt.Fprintf(&b, "  To:               %s\n", tx.To.Hex())
	fmt.Fprintf(&b, "  Value:            %s %s (%s wei)\n", FormatEther(tx.Value), r.NativeSymbol, bigString(tx.Value))
	fmt.Fprintf(&b, "  Data:             %s\n", data)
	fmt.Fprintf(&b, "  Operation:        %d (%s)\n", uint8(tx.Operation), tx.Operation)
	fmt.Fprintf(&b, "  Safe tx gas:      %s\n", bigString(tx.SafeTxGas))
	fmt.Fprintf(&b, "  Base gas:         %s\n", bigString(tx.BaseGas))
	fmt.Fprintf(&b, "  Gas price:        %s\n", bigString(tx.GasPrice))
	fmt.Fprintf(&b, "  Gas token:        %s\n", tx.GasToken.Hex())
	fmt.Fprintf(&b, "  Refund receiver:  %s\n", tx.RefundReceiver.Hex())
	fmt.Fprintf(&b, "  Nonce:            %s\n", bigString(tx.Nonce))
	if r.DecodedCall != nil {
		fmt.Fprintf(&b, "  Decoded call:     %s\n", callData.Format(r.DecodedCall))
		if r.DecodedCall.Success && r.DecodedCall.Error != "" {
			fmt.Fprintf(&b, "  Decoder note:     %s\n", r.DecodedCall.Error)
		}
	}
	if tx.Operation == types.OperationDelegateCall {
		b.WriteString("  WARNING: delegatecall executes the target's code in the Safe's context\n")
	}

	b.WriteString("\nHashes\n")
	fmt.Fprintf(&b, "  Domain hash:      %s\n", r.Hashes.DomainHash.Hex())
	fmt.Fprintf(&b, "  Message hash:     %s\n", r.Hashes.MessageHash.Hex())
	fmt.Fprintf(&b, "  Safe tx hash:     %s\n", r.Hashes.FinalHash.Hex())

	_, err := io.WriteString(w, b.String())
	return err
}
