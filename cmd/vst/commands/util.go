package commands

import (
	"encoding/json"
	"fmt"

	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/openvault/vaultstake/factory"
	"github.com/openvault/vaultstake/flow"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func asJson(data any) string {
	bz, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(bz)
}

// loadSession builds the session for the command's factory and fetches
// an initial snapshot so flows validate against fresh balances.
func loadSession(cmd *cobra.Command) (*factory.Factory, *flow.Session, error) {
	f := setup.UnwrapFactory(cmd.Context())
	session, err := f.NewSession()
	if err != nil {
		return nil, nil, err
	}
	if _, err := session.Snapshots().Refresh(cmd.Context()); err != nil {
		return nil, nil, fmt.Errorf("could not read vault balances: %v", err)
	}
	if _, err := session.Snapshots().RefreshStats(cmd.Context()); err != nil {
		// stats only feed estimates, balances are what flows validate on
		logrus.WithError(err).Warn("could not read vault stats")
	}
	return f, session, nil
}

// requireSigner fails fast with a clear message before a signing command
// gets as far as submitting.
func requireSigner(f *factory.Factory) error {
	if !f.HasSigningKey() {
		return fmt.Errorf("this command signs transactions, set connector.private_key in the config")
	}
	return nil
}
