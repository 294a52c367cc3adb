package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "safe-tx-hash",
		Usage: "Compute and verify Safe multisig transaction hashes offline",
		Description: `Recomputes the EIP-712 hashes a Safe owner signs so they can be compared with
what a hardware wallet or the Safe UI displays before signing.

This tool can:
- Compute the domain, message and safe transaction hashes for a SafeTx
- Verify an expected hash shown on a signing device
- Decode ERC-20 call data and ABI-embedded text
- Keep a history of computed hashes in memory, Badger or Redis`,
		Version: "1.0.0",
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvSafeHashVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "hash",
				Usage:  "Compute the hashes of a Safe transaction",
				Flags:  append(transactionFlags(), storeFlags()...),
				Action: hashCommand,
			},
			{
				Name:  "verify",
				Usage: "Compute the hashes and compare them with an expected hash",
				Flags: append(append(transactionFlags(), storeFlags()...),
					&cli.StringFlag{
						Name:     "expected",
						Usage:    "Hash shown by the signing device (safe tx hash or message hash)",
						Required: true,
					},
				),
				Action: verifyCommand,
			},
			{
				Name:  "decode",
				Usage: "Decode transaction call data",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "0x-prefixed call data",
						Required: true,
					},
				},
				Action: decodeCommand,
			},
			{
				Name:  "history",
				Usage: "List previously computed hashes",
				Flags: append(storeFlags(),
					&cli.Uint64Flag{
						Name:    "chain-id",
						Usage:   "Only show records for this chain id",
						EnvVars: []string{config.EnvSafeHashChainID},
					},
					&cli.StringFlag{
						Name:    "safe-address",
						Usage:   "Only show records for this Safe",
						EnvVars: []string{config.EnvSafeHashSafeAddress},
					},
				),
				Action: historyCommand,
			},
		},
	}
}

func transactionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Transaction file (.json, .yaml or .yml); replaces the transaction flags",
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"chain"},
			Usage:   fmt.Sprintf("Chain id of the Safe, known networks: %s", config.GetKnownChainIDsString()),
			EnvVars: []string{config.EnvSafeHashChainID},
		},
		&cli.StringFlag{
			Name:    "safe-address",
			Aliases: []string{"safe"},
			Usage:   "Address of the Safe (EIP-712 verifying contract)",
			EnvVars: []string{config.EnvSafeHashSafeAddress},
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Target address of the transaction",
		},
		&cli.StringFlag{
			Name:  "value",
			Usage: "Value in wei (decimal or 0x hex)",
			Value: "0",
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "0x-prefixed call data",
			Value: "0x",
		},
		&cli.Uint64Flag{
			Name:  "operation",
			Usage: "0 for call, 1 for delegatecall",
			Value: 0,
		},
		&cli.StringFlag{
			Name:  "safe-tx-gas",
			Usage: "Gas for the inner call",
			Value: "0",
		},
		&cli.StringFlag{
			Name:  "base-gas",
			Usage: "Gas costs independent of the inner call",
			Value: "0",
		},
		&cli.StringFlag{
			Name:  "gas-price",
			Usage: "Gas price used for the refund calculation",
			Value: "0",
		},
		&cli.StringFlag{
			Name:  "gas-token",
			Usage: "Token used for the refund (zero address for the native currency)",
		},
		&cli.StringFlag{
			Name:  "refund-receiver",
			Usage: "Address receiving the gas refund",
		},
		&cli.StringFlag{
			Name:  "nonce",
			Usage: "Safe nonce of the transaction",
		},
		&cli.StringFlag{
			Name:    "primitive",
			Usage:   "Hash primitive implementation: geth or sha3",
			Value:   "geth",
			EnvVars: []string{config.EnvSafeHashPrimitive},
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Hash history store: none, memory, badger or redis",
			Value:   string(config.StoreTypeNone),
			EnvVars: []string{config.EnvSafeHashStore},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory of the badger store",
			EnvVars: []string{config.EnvSafeHashDataDir},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis server address (host:port)",
			EnvVars: []string{config.EnvSafeHashRedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvSafeHashRedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{config.EnvSafeHashRedisDB},
		},
		&cli.StringFlag{
			Name:    "redis-prefix",
			Usage:   "Prefix prepended to every Redis key",
			EnvVars: []string{config.EnvSafeHashRedisPrefix},
		},
	}
}
