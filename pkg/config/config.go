package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the safe-tx-hash CLI
const (
	EnvSafeHashChainID       = "SAFE_HASH_CHAIN_ID"
	EnvSafeHashSafeAddress   = "SAFE_HASH_SAFE_ADDRESS"
	EnvSafeHashPrimitive     = "SAFE_HASH_PRIMITIVE"
	EnvSafeHashStore         = "SAFE_HASH_STORE"
	EnvSafeHashDataDir       = "SAFE_HASH_DATA_DIR"
	EnvSafeHashRedisAddress  = "SAFE_HASH_REDIS_ADDRESS"
	EnvSafeHashRedisPassword = "SAFE_HASH_REDIS_PASSWORD"
	EnvSafeHashRedisDB       = "SAFE_HASH_REDIS_DB"
	EnvSafeHashRedisPrefix   = "SAFE_HASH_REDIS_PREFIX"
	EnvSafeHashVerbose       = "SAFE_HASH_VERBOSE"
)

type ChainId uint64

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_Optimism        ChainId = 10
	ChainId_BSC             ChainId = 56
	ChainId_Gnosis          ChainId = 100
	ChainId_Polygon         ChainId = 137
	ChainId_Base            ChainId = 8453
	ChainId_Arbitrum        ChainId = 42161
	ChainId_Linea           ChainId = 59144
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_Optimism        ChainName = "optimism"
	ChainName_BSC             ChainName = "bsc"
	ChainName_Gnosis          ChainName = "gnosis"
	ChainName_Polygon         ChainName = "polygon"
	ChainName_Base            ChainName = "base"
	ChainName_Arbitrum        ChainName = "arbitrum"
	ChainName_Linea           ChainName = "linea"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
	ChainName_Unknown         ChainName = "unknown"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_Optimism:        ChainName_Optimism,
	ChainId_BSC:             ChainName_BSC,
	ChainId_Gnosis:          ChainName_Gnosis,
	ChainId_Polygon:         ChainName_Polygon,
	ChainId_Base:            ChainName_Base,
	ChainId_Arbitrum:        ChainName_Arbitrum,
	ChainId_Linea:           ChainName_Linea,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}

var ChainNameToId = func() map[ChainName]ChainId {
	m := make(map[ChainName]ChainId, len(ChainIdToName))
	for id, name := range ChainIdToName {
		m[name] = id
	}
	return m
}()

// NativeCurrencySymbol is used when rendering the transaction value.
var NativeCurrencySymbol = map[ChainId]string{
	ChainId_BSC:     "BNB",
	ChainId_Gnosis:  "xDAI",
	ChainId_Polygon: "POL",
}

// GetChainName returns the known network name, or "unknown". Unknown chains are
// still hashable; the name is informational only.
func GetChainName(chainId ChainId) ChainName {
	if name, ok := ChainIdToName[chainId]; ok {
		return name
	}
	return ChainName_Unknown
}

// GetNativeCurrencySymbol defaults to ETH.
func GetNativeCurrencySymbol(chainId ChainId) string {
	if sym, ok := NativeCurrencySymbol[chainId]; ok {
		return sym
	}
	return "ETH"
}

// GetKnownChainIDsString returns known chain IDs for CLI help
func GetKnownChainIDsString() string {
	ids := make([]int, 0, len(ChainIdToName))
	for id := range ChainIdToName {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d (%s)", id, ChainIdToName[ChainId(id)]))
	}
	return strings.Join(parts, ", ")
}

type StoreType string

const (
	StoreTypeNone   StoreType = "none"
	StoreTypeMemory StoreType = "memory"
	StoreTypeBadger StoreType = "badger"
	StoreTypeRedis  StoreType = "redis"
)

var supportedStoreTypes = []string{
	string(StoreTypeNone),
	string(StoreTypeMemory),
	string(StoreTypeBadger),
	string(StoreTypeRedis),
}

func (s StoreType) String() string {
	return string(s)
}

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

type StoreConfig struct {
	Type    StoreType    `json:"type" yaml:"type"`
	DataDir string       `json:"dataDir" yaml:"dataDir"`
	Redis   *RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

// Validate checks the store settings required by the selected backend.
func (sc *StoreConfig) Validate() field.ErrorList {
	var allErrors field.ErrorList
	path := field.NewPath("store")

	switch sc.Type {
	case "", StoreTypeNone, StoreTypeMemory:
	case StoreTypeBadger:
		if sc.DataDir == "" {
			allErrors = append(allErrors, field.Required(path.Child("dataDir"), "dataDir is required for badger store"))
		}
	case StoreTypeRedis:
		if sc.Redis == nil || sc.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(path.Child("redis", "address"), "redis address is required for redis store"))
		} else if sc.Redis.DB < 0 || sc.Redis.DB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redis", "db"), sc.Redis.DB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), sc.Type, supportedStoreTypes))
	}
	return allErrors
}

// HashToolConfig is the fully resolved CLI configuration.
type HashToolConfig struct {
	ChainID     ChainId   `json:"chain_id"`
	ChainName   ChainName `json:"chain_name"`
	SafeAddress string    `json:"safe_address"`
	Primitive   string    `json:"primitive"`

	Store StoreConfig `json:"store"`

	Debug   bool `json:"debug"`
	Verbose bool `json:"verbose"`
}

// Validate validates the configuration and fills in ChainName.
func (c *HashToolConfig) Validate() error {
	var allErrors field.ErrorList

	if c.ChainID == 0 {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	}
	if c.SafeAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("safeAddress"), "safeAddress is required"))
	} else if !common.IsHexAddress(c.SafeAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("safeAddress"), c.SafeAddress, "invalid address format"))
	}
	switch c.Primitive {
	case "", "geth", "sha3":
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("primitive"), c.Primitive, []string{"geth", "sha3"}))
	}
	allErrors = append(allErrors, c.Store.Validate()...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}

	c.ChainName = GetChainName(c.ChainID)
	return nil
}
