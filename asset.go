package vaultstake

import (
	"fmt"
	"strings"
	"time"

	"github.com/openvault/vaultstake/config"
	"golang.org/x/time/rate"
)

// ChainConfig describes the EVM network the vault lives on.
type ChainConfig struct {
	// Informational chain name ("ethereum", "base", ...)
	Chain string `yaml:"chain"`
	// RPC endpoint
	URL string `yaml:"url"`
	// EVM chain id used for signing
	ChainID int64 `yaml:"chain_id"`

	// Decimals of the native gas asset
	Decimals int32 `yaml:"decimals,omitempty"`
	// Max gas spend permitted on a single transaction, in native units
	FeeLimit HumanAmount `yaml:"fee_limit,omitempty"`

	// How many confirmations is considered "final" for this chain?
	ConfirmationsFinal int `yaml:"confirmations_final,omitempty"`
	// How long to wait on a submitted transaction before timing out
	ConfirmationTimeout time.Duration `yaml:"confirmation_timeout,omitempty"`

	// Rate limit setting on RPC requests for client, in requests/second.
	RateLimit rate.Limit `yaml:"rate_limit,omitempty"`
	// Period between requests (alternative to `rate_limit`)
	PeriodLimit time.Duration `yaml:"period_limit,omitempty"`
	// Number of requests to permit in burst
	Burst int `yaml:"burst,omitempty"`

	// Rate limiter configured from `rate_limit`, `period_limit`, `burst` (requires calling .Configure after loading from config)
	Limiter *rate.Limiter `yaml:"-" mapstructure:"-"`
}

func (chain *ChainConfig) NewClientLimiter() *rate.Limiter {
	// default no limit
	burst := chain.Burst
	var limiter = rate.NewLimiter(rate.Inf, burst)
	if chain.PeriodLimit != 0 {
		limiter = rate.NewLimiter(rate.Every(chain.PeriodLimit), burst)
	}
	if chain.RateLimit != 0 {
		limiter = rate.NewLimiter(chain.RateLimit, burst)
	}
	return limiter
}

func (chain *ChainConfig) Configure() {
	chain.Limiter = chain.NewClientLimiter()
}

func (chain *ChainConfig) GasDecimals() int32 {
	if chain.Decimals == 0 {
		return DefaultDecimals
	}
	return chain.Decimals
}

func (chain ChainConfig) String() string {
	return fmt.Sprintf(
		"ChainConfig(chain=%s chainId=%d url=%s confirmations=%d)",
		chain.Chain, chain.ChainID, chain.URL, chain.ConfirmationsFinal,
	)
}

// VaultConfig locates the vault and its underlying asset.
type VaultConfig struct {
	// ERC20 contract of the primary (underlying) asset
	AssetContract string `yaml:"asset_contract"`
	// ERC4626 vault contract issuing shares
	VaultContract string `yaml:"vault_contract"`
	// Token decimals, shared by asset and shares
	Decimals int32 `yaml:"decimals,omitempty"`
	// Externally supplied yield rate displayed for the vault, in percent.
	// Not computed here.
	APY HumanAmount `yaml:"apy,omitempty"`
}

func (vault *VaultConfig) GetDecimals() int32 {
	if vault.Decimals == 0 {
		return DefaultDecimals
	}
	return vault.Decimals
}

// PollingConfig sets the two refresh cadences. The balance poller and the
// stats poller run independently and are never paused by in-flight
// transactions.
type PollingConfig struct {
	// Interval between balance/allowance snapshot refreshes
	BalanceInterval time.Duration `yaml:"balance_interval,omitempty"`
	// Interval between protocol-wide stat refreshes
	StatsInterval time.Duration `yaml:"stats_interval,omitempty"`
}

// ConnectorConfig declares the single signing capability injected at
// startup. There is no dynamic connector discovery.
type ConnectorConfig struct {
	// Reference to the signing key: env:VAR, file:/path, or vault:addr,path
	PrivateKey config.Secret `yaml:"private_key,omitempty"`
	// Owner address; may be set alone for read-only use
	Address string `yaml:"address,omitempty"`
	// Priority applied to gas fees on submitted transactions
	Priority GasFeePriority `yaml:"priority,omitempty"`
	// Gas limit used when estimation fails
	GasLimitDefault uint64 `yaml:"gas_limit_default,omitempty"`
}

func (c ConnectorConfig) String() string {
	secretRef := string(c.PrivateKey)
	if !config.HasTypePrefix(secretRef) || strings.HasPrefix(secretRef, string(config.Raw)) {
		secretRef = "<REDACTED>"
	}
	return fmt.Sprintf("ConnectorConfig(address=%s key=%s priority=%s)", c.Address, secretRef, c.Priority)
}

// AppConfig is the top-level configuration, section "vaultstake".
type AppConfig struct {
	Chain     ChainConfig     `yaml:"chain"`
	Vault     VaultConfig     `yaml:"vault"`
	Polling   PollingConfig   `yaml:"polling"`
	Connector ConnectorConfig `yaml:"connector"`
}

// DefaultAppConfig carries the defaults merged under any loaded config.
func DefaultAppConfig() *AppConfig {
	feeLimit, _ := NewHumanAmountFromStr("0.05")
	return &AppConfig{
		Chain: ChainConfig{
			Decimals:            DefaultDecimals,
			FeeLimit:            feeLimit,
			ConfirmationsFinal:  2,
			ConfirmationTimeout: 2 * time.Minute,
		},
		Vault: VaultConfig{
			Decimals: DefaultDecimals,
		},
		Polling: PollingConfig{
			BalanceInterval: 5 * time.Second,
			StatsInterval:   30 * time.Second,
		},
		Connector: ConnectorConfig{
			Priority:        Market,
			GasLimitDefault: 250_000,
		},
	}
}

func (cfg *AppConfig) Validate() error {
	if cfg.Chain.URL == "" {
		return fmt.Errorf("chain.url is required")
	}
	if cfg.Chain.ChainID == 0 {
		return fmt.Errorf("chain.chain_id is required")
	}
	if cfg.Vault.AssetContract == "" {
		return fmt.Errorf("vault.asset_contract is required")
	}
	if cfg.Vault.VaultContract == "" {
		return fmt.Errorf("vault.vault_contract is required")
	}
	return nil
}
