package main

import (
	"fmt"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/callData"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/config"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/logger"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/factory"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/report"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/safeHash"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/txFile"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

func hashCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	_, err = computeAndReport(c, l)
	return err
}

func verifyCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	// reject a malformed --expected before doing any work
	if _, err := report.ParseExpectedHash(c.String("expected")); err != nil {
		return err
	}

	hashes, err := computeAndReport(c, l)
	if err != nil {
		return err
	}

	v, err := report.Compare(c.String("expected"), hashes)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.App.Writer, "\n%s\n", v)

	l.Sugar().Debugw("Verification finished", "expected", v.Expected.Hex(), "match", v.Match)
	if !v.Matched() {
		return cli.Exit("hash verification failed", 1)
	}
	return nil
}

func computeAndReport(c *cli.Context, l *zap.Logger) (*types.HashTriple, error) {
	req, err := loadRequest(c)
	if err != nil {
		return nil, err
	}

	cfg, err := parseHashToolConfig(c, req)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	l.Sugar().Debugw("Using chain", "name", cfg.ChainName, "chain_id", cfg.ChainID, "primitive", cfg.Primitive)

	primitive, err := safeHash.NewPrimitive(safeHash.PrimitiveType(cfg.Primitive))
	if err != nil {
		return nil, err
	}

	domain := req.Domain()
	hasher, err := safeHash.NewSafeHasher(domain, primitive)
	if err != nil {
		return nil, err
	}

	tx := req.Transaction()
	hashes, err := hasher.GetAllHashes(tx)
	if err != nil {
		return nil, err
	}

	if err := report.New(domain, tx, hashes, nil).Write(c.App.Writer); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if err := recordHashes(c, &cfg.Store, l, domain, tx, hashes); err != nil {
		return nil, err
	}

	return hashes, nil
}

// loadRequest reads --file when given, otherwise assembles the request from flags.
func loadRequest(c *cli.Context) (*txFile.Request, error) {
	if path := c.String("file"); path != "" {
		return txFile.LoadRequestFile(path)
	}
	return requestFromFlags(c)
}

func requestFromFlags(c *cli.Context) (*txFile.Request, error) {
	req := &txFile.Request{}

	if id := c.Uint64("chain-id"); id != 0 {
		req.ChainID = (*math.HexOrDecimal256)(new(big.Int).SetUint64(id))
	}

	var err error
	if req.SafeAddress, err = optionalAddress(c, "safe-address"); err != nil {
		return nil, err
	}
	if req.To, err = optionalAddress(c, "to"); err != nil {
		return nil, err
	}
	if req.GasToken, err = optionalAddress(c, "gas-token"); err != nil {
		return nil, err
	}
	if req.RefundReceiver, err = optionalAddress(c, "refund-receiver"); err != nil {
		return nil, err
	}

	for name, dst := range map[string]**math.HexOrDecimal256{
		"value":       &req.Value,
		"safe-tx-gas": &req.SafeTxGas,
		"base-gas":    &req.BaseGas,
		"gas-price":   &req.GasPrice,
	} {
		v, err := txFile.ParseUint256(c.String(name))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", name, err)
		}
		*dst = (*math.HexOrDecimal256)(v)
	}
	if c.String("nonce") != "" {
		nonce, err := txFile.ParseUint256(c.String("nonce"))
		if err != nil {
			return nil, fmt.Errorf("invalid --nonce: %w", err)
		}
		req.Nonce = (*math.HexOrDecimal256)(nonce)
	}

	data := c.String("data")
	if data == "" {
		data = "0x"
	}
	if v := callData.Validate(data); !v.Valid {
		return nil, fmt.Errorf("invalid --data: %s", v.Reason)
	}
	if err := req.Data.UnmarshalText([]byte(data)); err != nil {
		return nil, fmt.Errorf("invalid --data: %w", err)
	}

	operation := c.Uint64("operation")
	req.Operation = &operation

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func optionalAddress(c *cli.Context, name string) (*common.Address, error) {
	if c.String(name) == "" {
		return nil, nil
	}
	addr, err := txFile.ParseAddress(c.String(name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &addr, nil
}

func parseStoreConfig(c *cli.Context) config.StoreConfig {
	return config.StoreConfig{
		Type:    config.StoreType(c.String("store")),
		DataDir: c.String("data-dir"),
		Redis: &config.RedisConfig{
			Address:   c.String("redis-address"),
			Password:  c.String("redis-password"),
			DB:        c.Int("redis-db"),
			KeyPrefix: c.String("redis-prefix"),
		},
	}
}

func parseHashToolConfig(c *cli.Context, req *txFile.Request) (*config.HashToolConfig, error) {
	chainID := (*big.Int)(req.ChainID)
	if !chainID.IsUint64() {
		return nil, fmt.Errorf("chain id %s does not fit in 64 bits", chainID)
	}

	cfg := &config.HashToolConfig{
		ChainID:     config.ChainId(chainID.Uint64()),
		SafeAddress: req.SafeAddress.Hex(),
		Primitive:   c.String("primitive"),
		Store:       parseStoreConfig(c),
		Debug:       c.Bool("verbose"),
		Verbose:     c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// recordHashes saves the computation to the configured store and reports
// whether the same safe transaction hash was seen before.
func recordHashes(c *cli.Context, storeCfg *config.StoreConfig, l *zap.Logger, domain *types.Domain, tx *types.SafeTransaction, hashes *types.HashTriple) error {
	store, err := factory.NewFromConfig(storeCfg, l)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer func() { _ = store.Close() }()

	previous, err := store.LoadHashRecord(hashes.FinalHash)
	if err != nil {
		return fmt.Errorf("failed to look up hash history: %w", err)
	}
	if previous != nil {
		_, _ = fmt.Fprintf(c.App.Writer, "\nPreviously computed at %s (record %s)\n",
			time.Unix(previous.CreatedAt, 0).UTC().Format(time.RFC3339), previous.ID)
	}

	record := persistence.NewHashRecord(domain, tx, hashes)
	if err := store.SaveHashRecord(record); err != nil {
		return fmt.Errorf("failed to save hash record: %w", err)
	}
	l.Sugar().Infow("Saved hash record", "id", record.ID, "safe_tx_hash", record.Key().Hex(), "store", storeCfg.Type)
	return nil
}

func decodeCommand(c *cli.Context) error {
	data := c.String("data")
	out := c.App.Writer

	validation := callData.Validate(data)
	if !validation.Valid {
		_, _ = fmt.Fprintf(out, "Invalid call data: %s\n", validation.Reason)
		return cli.Exit("invalid call data", 1)
	}

	call := callData.DecodeCall(data)
	_, _ = fmt.Fprintf(out, "Call:  %s\n", callData.Format(call))
	for _, p := range call.Params {
		_, _ = fmt.Fprintf(out, "  %s %s = %s\n", p.Type, p.Name, p.Value)
	}
	if call.Success && call.Error != "" {
		_, _ = fmt.Fprintf(out, "  note: %s\n", call.Error)
	}

	_, _ = fmt.Fprintf(out, "Text:  %s\n", callData.Format(callData.DecodeEmbeddedASCII(data)))
	return nil
}

func historyCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	storeCfg := parseStoreConfig(c)
	store, err := factory.NewFromConfig(&storeCfg, l)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("history requires a store, set --store to badger or redis")
	}
	defer func() { _ = store.Close() }()

	filter := &persistence.RecordFilter{}
	if id := c.Uint64("chain-id"); id != 0 {
		filter.ChainID = new(big.Int).SetUint64(id)
	}
	if c.String("safe-address") != "" {
		safe, err := txFile.ParseAddress(c.String("safe-address"))
		if err != nil {
			return fmt.Errorf("invalid --safe-address: %w", err)
		}
		filter.SafeAddress = &safe
	}

	records, err := store.ListHashRecords(filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, _ = fmt.Fprintln(c.App.Writer, "No hash records found")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHAIN\tSAFE\tNONCE\tOPERATION\tSAFE TX HASH\tCOMPUTED AT")
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ChainID, r.SafeAddress.Hex(), r.Nonce, r.Operation, r.Hashes.FinalHash.Hex(),
			time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339))
	}
	return w.Flush()
}
