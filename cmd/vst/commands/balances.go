package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/openvault/vaultstake/snapshot"
	"github.com/spf13/cobra"
)

func CmdBalances() *cobra.Command {
	var decimal bool
	cmd := &cobra.Command{
		Use:     "balances",
		Aliases: []string{"balance"},
		Short:   "Check owner balances, allowance and share value. Reported in base units unless --decimal.",
		Args:    cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := setup.UnwrapFactory(cmd.Context())
			rpcClient, err := f.NewEvmClient()
			if err != nil {
				return err
			}
			connector, err := f.NewConnector(rpcClient)
			if err != nil {
				return err
			}
			service := snapshot.NewService(rpcClient, connector.Address(), &f.Config.Vault)
			snap, err := service.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not read vault balances: %v", err)
			}
			gas, err := rpcClient.NativeBalance(cmd.Context(), connector.Address())
			if err != nil {
				return fmt.Errorf("could not fetch balance for address %s: %v", connector.Address(), err)
			}

			decimals := f.Config.Vault.GetDecimals()
			render := func(amount vs.Amount) string {
				if decimal {
					return vs.FormatDefault(amount, decimals)
				}
				return amount.String()
			}
			gasBalance := gas.String()
			if decimal {
				gasBalance = vs.FormatDefault(gas, f.Config.Chain.GasDecimals())
			}
			fmt.Println(asJson(map[string]any{
				"address":     connector.Address(),
				"gas":         gasBalance,
				"primary":     render(snap.PrimaryBalance),
				"shares":      render(snap.ShareBalance),
				"share_value": render(snap.ShareValueInPrimary),
				"allowance":   render(snap.Allowance),
				"approved":    snap.IsApproved(),
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&decimal, "decimal", false, "Report balances as formatted decimals instead of base units.")
	return cmd
}
