package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/flow"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdUnstake() *cobra.Command {
	var pct uint64
	var receiver string
	cmd := &cobra.Command{
		Use:   "unstake [amount]",
		Short: "Redeem vault shares back into the primary asset.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, session, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := requireSigner(f); err != nil {
				return err
			}

			options := []flow.UnstakeOption{}
			if receiver != "" {
				options = append(options, flow.UnstakeOptionReceiver(vs.Address(receiver)))
			}
			unstake, err := session.NewUnstakeFlow(options...)
			if err != nil {
				return err
			}

			var input vs.AmountInput
			switch {
			case len(args) > 0:
				input = unstake.SetAmount(args[0])
			case pct > 0:
				input = unstake.SetPercentage(pct)
			default:
				return fmt.Errorf("pass an amount or --pct")
			}
			logrus.WithFields(logrus.Fields{
				"raw":    input.Raw,
				"shares": input.Display(f.Config.Vault.GetDecimals()),
			}).Info("unstaking")

			if err := unstake.Submit(cmd.Context()); err != nil {
				return err
			}
			realized, err := unstake.RealizedAssets()
			if err != nil {
				return err
			}
			report := map[string]any{
				"shares":         unstake.Amount().String(),
				"realized_value": realized.String(),
			}
			if confirmation, ok := unstake.Redeem().Confirmation(); ok {
				report["tx_hash"] = confirmation.Hash
				report["fee"] = confirmation.Fee.String()
			}
			fmt.Println(asJson(report))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&pct, "pct", 0, "Redeem a percentage of the share balance instead of an amount.")
	cmd.Flags().StringVar(&receiver, "receiver", "", "Receive the assets at this address instead of the owner.")
	return cmd
}
