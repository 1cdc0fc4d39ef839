package vaultstake_test

import (
	"time"

	. "github.com/openvault/vaultstake"
	"golang.org/x/time/rate"
)

func (s *VaultStakeTestSuite) TestGasDecimals() {
	require := s.Require()
	chain := &ChainConfig{}
	require.Equal(DefaultDecimals, chain.GasDecimals())

	chain.Decimals = 6
	require.Equal(int32(6), chain.GasDecimals())
}

func (s *VaultStakeTestSuite) TestVaultDecimals() {
	require := s.Require()
	vault := &VaultConfig{}
	require.Equal(DefaultDecimals, vault.GetDecimals())

	vault.Decimals = 8
	require.Equal(int32(8), vault.GetDecimals())
}

func (s *VaultStakeTestSuite) TestClientLimiter() {
	require := s.Require()

	// unset means unlimited
	chain := &ChainConfig{}
	limiter := chain.NewClientLimiter()
	require.Equal(rate.Inf, limiter.Limit())

	chain = &ChainConfig{PeriodLimit: time.Second, Burst: 3}
	limiter = chain.NewClientLimiter()
	require.Equal(rate.Limit(1), limiter.Limit())
	require.Equal(3, limiter.Burst())

	chain = &ChainConfig{RateLimit: 10, Burst: 2}
	limiter = chain.NewClientLimiter()
	require.Equal(rate.Limit(10), limiter.Limit())
	require.Equal(2, limiter.Burst())

	// rate_limit wins over period_limit
	chain = &ChainConfig{RateLimit: 10, PeriodLimit: time.Minute}
	limiter = chain.NewClientLimiter()
	require.Equal(rate.Limit(10), limiter.Limit())

	chain.Configure()
	require.NotNil(chain.Limiter)
}

func (s *VaultStakeTestSuite) TestDefaultAppConfig() {
	require := s.Require()
	cfg := DefaultAppConfig()

	require.Equal(DefaultDecimals, cfg.Chain.Decimals)
	require.Equal("0.05", cfg.Chain.FeeLimit.String())
	require.Equal(2, cfg.Chain.ConfirmationsFinal)
	require.Equal(2*time.Minute, cfg.Chain.ConfirmationTimeout)

	require.Equal(DefaultDecimals, cfg.Vault.Decimals)

	require.Equal(5*time.Second, cfg.Polling.BalanceInterval)
	require.Equal(30*time.Second, cfg.Polling.StatsInterval)

	require.Equal(Market, cfg.Connector.Priority)
	require.Equal(uint64(250_000), cfg.Connector.GasLimitDefault)
}

func (s *VaultStakeTestSuite) TestAppConfigValidate() {
	require := s.Require()
	cfg := &AppConfig{}

	err := cfg.Validate()
	require.ErrorContains(err, "chain.url is required")

	cfg.Chain.URL = "http://localhost:8545"
	err = cfg.Validate()
	require.ErrorContains(err, "chain.chain_id is required")

	cfg.Chain.ChainID = 31337
	err = cfg.Validate()
	require.ErrorContains(err, "vault.asset_contract is required")

	cfg.Vault.AssetContract = "0x1000000000000000000000000000000000000001"
	err = cfg.Validate()
	require.ErrorContains(err, "vault.vault_contract is required")

	cfg.Vault.VaultContract = "0x2000000000000000000000000000000000000002"
	require.NoError(cfg.Validate())
}

func (s *VaultStakeTestSuite) TestConnectorConfigRedaction() {
	require := s.Require()

	cfg := ConnectorConfig{PrivateKey: "env:VST_KEY", Address: "0xabc", Priority: Market}
	require.Contains(cfg.String(), "env:VST_KEY")

	// raw and untyped secrets never echo their content
	cfg = ConnectorConfig{PrivateKey: "raw:deadbeef"}
	require.NotContains(cfg.String(), "deadbeef")
	require.Contains(cfg.String(), "REDACTED")

	cfg = ConnectorConfig{PrivateKey: "deadbeef"}
	require.NotContains(cfg.String(), "deadbeef")
	require.Contains(cfg.String(), "REDACTED")
}

func (s *VaultStakeTestSuite) TestChainConfigString() {
	require := s.Require()
	chain := ChainConfig{Chain: "base", ChainID: 8453, URL: "http://localhost:8545", ConfirmationsFinal: 2}
	str := chain.String()
	require.Contains(str, "base")
	require.Contains(str, "8453")
	require.Contains(str, "http://localhost:8545")
}
