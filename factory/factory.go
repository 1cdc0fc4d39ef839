package factory

import (
	"context"
	"fmt"
	"strings"

	vs "github.com/openvault/vaultstake"
	evmclient "github.com/openvault/vaultstake/chain/evm/client"
	"github.com/openvault/vaultstake/chain/evm/signer"
	vsclient "github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/openvault/vaultstake/config"
	"github.com/openvault/vaultstake/flow"
)

// Factory assembles the transport clients, the connector and the session
// from configuration.
type Factory struct {
	Config *vs.AppConfig
}

// NewDefaultFactory loads the "vaultstake" config section merged over
// the built-in defaults.
func NewDefaultFactory() (*Factory, error) {
	cfg := &vs.AppConfig{}
	err := config.RequireConfig("vaultstake", cfg, vs.DefaultAppConfig())
	if err != nil {
		return nil, err
	}
	return NewFactoryWithConfig(cfg)
}

// NewFactoryWithConfig creates a new Factory given a loaded config
func NewFactoryWithConfig(cfg *vs.AppConfig) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Chain.Configure()
	return &Factory{Config: cfg}, nil
}

// NewEvmClient dials the configured RPC endpoint. The returned client
// serves as oracle, submitter and watcher.
func (f *Factory) NewEvmClient() (*evmclient.Client, error) {
	return evmclient.NewClient(&f.Config.Chain)
}

// HasSigningKey reports whether a private key reference is configured.
// Without one the connector is read-only.
func (f *Factory) HasSigningKey() bool {
	return f.Config.Connector.PrivateKey != ""
}

// NewConnector builds the signing connector, or a read-only one when
// only connector.address is configured.
func (f *Factory) NewConnector(client *evmclient.Client) (vsclient.Connector, error) {
	if f.HasSigningKey() {
		return signer.New(&f.Config.Chain, &f.Config.Connector, client)
	}
	if f.Config.Connector.Address != "" {
		return &addressOnly{address: vs.Address(strings.ToLower(f.Config.Connector.Address))}, nil
	}
	return nil, fmt.Errorf("connector.private_key or connector.address must be configured")
}

// NewSession wires oracle, submitter, watcher and connector together.
// The session is not started.
func (f *Factory) NewSession() (*flow.Session, error) {
	client, err := f.NewEvmClient()
	if err != nil {
		return nil, err
	}
	connector, err := f.NewConnector(client)
	if err != nil {
		return nil, err
	}
	return flow.NewSession(
		client, client, client, connector,
		&f.Config.Chain, &f.Config.Vault, &f.Config.Polling,
	), nil
}

// addressOnly satisfies the connector interface for read-only use.
type addressOnly struct {
	address vs.Address
}

var _ vsclient.Connector = &addressOnly{}

func (a *addressOnly) Address() vs.Address {
	return a.address
}

func (a *addressOnly) Sign(_ context.Context, _ vs.CallParams) (vs.SignedTx, error) {
	return nil, errors.Submitf("no signing key configured, set connector.private_key")
}
