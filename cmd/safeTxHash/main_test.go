package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const (
	lineaSafe    = "0xDb73ba19F072D0Fbc865781Ba468A9F8B77aD2C4"
	tokenHolder  = "0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4"
	transferCall = "0xa9059cbb0000000000000000000000008b4b268a9aa797fd60889e88ac7be9a0c4b37ff40000000000000000000000000000000000000000000000000000000511b5ac00"

	goldenMessageHash = "0x08de308016c0bd5b24628c18ab9d28b3f129a9aa9f40900f6fc622f82bb194a9"
	goldenFinalHash   = "0x1c8bb9fdc4d957f77da17bb7ac5f42a9c89b334c88fcf6195968d4a974c46a84"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp(&out)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"safe-tx-hash"}, args...))
	return out.String(), err
}

func goldenFlags() []string {
	return []string{
		"--chain-id", "59144",
		"--safe-address", lineaSafe,
		"--to", tokenHolder,
		"--data", transferCall,
		"--nonce", "60",
	}
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "expected cli.ExitCoder, got %T: %v", err, err)
	assert.Equal(t, code, exitErr.ExitCode())
}

func TestHashCommand_Flags(t *testing.T) {
	out, err := runApp(t, append([]string{"hash"}, goldenFlags()...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "linea (chain id 59144)")
	assert.Contains(t, out, goldenMessageHash)
	assert.Contains(t, out, goldenFinalHash)
	assert.Contains(t, out, "transfer(0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4, 21771955200)")
}

func TestHashCommand_Sha3PrimitiveAgrees(t *testing.T) {
	out, err := runApp(t, append([]string{"hash", "--primitive", "sha3"}, goldenFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, goldenFinalHash)
}

func TestHashCommand_UnknownPrimitive(t *testing.T) {
	_, err := runApp(t, append([]string{"hash", "--primitive", "blake2"}, goldenFlags()...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primitive")
}

func TestHashCommand_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tx.yaml")
	doc := strings.Join([]string{
		"chainId: 59144",
		"safeAddress: \"" + lineaSafe + "\"",
		"to: \"" + tokenHolder + "\"",
		"data: \"" + transferCall + "\"",
		"nonce: 60",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := runApp(t, "hash", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, goldenFinalHash)
}

func TestHashCommand_MissingRequired(t *testing.T) {
	_, err := runApp(t, "hash", "--chain-id", "1", "--safe-address", lineaSafe, "--to", tokenHolder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce")
}

func TestHashCommand_InvalidData(t *testing.T) {
	flags := []string{"hash", "--chain-id", "1", "--safe-address", lineaSafe, "--to", tokenHolder, "--nonce", "1", "--data", "0xabc"}
	_, err := runApp(t, flags...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd number of hex characters")
}

func TestHashCommand_InvalidOperation(t *testing.T) {
	_, err := runApp(t, append([]string{"hash", "--operation", "2"}, goldenFlags()...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation")
}

func TestVerifyCommand(t *testing.T) {
	t.Run("final hash matches", func(t *testing.T) {
		out, err := runApp(t, append([]string{"verify", "--expected", strings.ToUpper(goldenFinalHash[2:])}, goldenFlags()...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "MATCH")
		assert.Contains(t, out, "safe transaction hash")
	})

	t.Run("message hash matches", func(t *testing.T) {
		out, err := runApp(t, append([]string{"verify", "--expected", goldenMessageHash}, goldenFlags()...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "equals the message hash")
	})

	t.Run("mismatch exits non-zero", func(t *testing.T) {
		out, err := runApp(t, append([]string{"verify", "--expected", "0x" + strings.Repeat("ab", 32)}, goldenFlags()...)...)
		requireExitCode(t, err, 1)
		assert.Contains(t, out, "MISMATCH")
	})

	t.Run("malformed expected hash", func(t *testing.T) {
		out, err := runApp(t, append([]string{"verify", "--expected", "0x1234"}, goldenFlags()...)...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid expected hash")
		assert.Empty(t, out)
	})
}

func TestDecodeCommand(t *testing.T) {
	out, err := runApp(t, "decode", "--data", transferCall)
	require.NoError(t, err)
	assert.Contains(t, out, "Call:  transfer(0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4, 21771955200)")
	assert.Contains(t, out, "address to = 0x8b4B268a9aA797fD60889E88AC7bE9a0C4b37Ff4")
	assert.Contains(t, out, "Text:  ")
}

func TestDecodeCommand_Invalid(t *testing.T) {
	out, err := runApp(t, "decode", "--data", "a9059cbb")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "missing 0x prefix")
}

func TestHistoryCommand_Badger(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--store", "badger", "--data-dir", dir}

	_, err := runApp(t, append(append([]string{"hash"}, store...), goldenFlags()...)...)
	require.NoError(t, err)

	out, err := runApp(t, append(append([]string{"hash"}, store...), goldenFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Previously computed at")

	out, err = runApp(t, append([]string{"history"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "SAFE TX HASH")
	assert.Contains(t, out, goldenFinalHash)
	assert.Equal(t, 1, strings.Count(out, goldenFinalHash))

	out, err = runApp(t, append([]string{"history", "--chain-id", "1"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No hash records found")
}

func TestHistoryCommand_NoStore(t *testing.T) {
	_, err := runApp(t, "history", "--store", "none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a store")
}
