package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/openvault/vaultstake/snapshot"
	"github.com/spf13/cobra"
)

func CmdStats() *cobra.Command {
	var decimal bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Check protocol-wide vault stats: managed assets, share price and the displayed yield rate.",
		Args:  cobra.ExactArgs(0),
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
			stats, err := service.RefreshStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not read vault stats: %v", err)
			}

			decimals := f.Config.Vault.GetDecimals()
			render := func(amount vs.Amount) string {
				if decimal {
					return vs.FormatDefault(amount, decimals)
				}
				return amount.String()
			}
			fmt.Println(asJson(map[string]any{
				"total_assets": render(stats.TotalAssets),
				"share_price":  render(stats.SharePrice),
				"apy":          vs.FormatPercent(stats.APY),
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&decimal, "decimal", false, "Report amounts as formatted decimals instead of base units.")
	return cmd
}
