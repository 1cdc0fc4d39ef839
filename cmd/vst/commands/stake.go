package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/flow"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdStake() *cobra.Command {
	var pct uint64
	var approveMax bool
	var receiver string
	cmd := &cobra.Command{
		Use:   "stake [amount]",
		Short: "Stake the primary asset into the vault, approving first when the allowance falls short.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, session, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := requireSigner(f); err != nil {
				return err
			}

			options := []flow.StakeOption{}
			if approveMax {
				options = append(options, flow.StakeOptionUnlimitedApproval())
			}
			if receiver != "" {
				options = append(options, flow.StakeOptionReceiver(vs.Address(receiver)))
			}
			stake, err := session.NewStakeFlow(options...)
			if err != nil {
				return err
			}

			var input vs.AmountInput
			switch {
			case len(args) > 0:
				input = stake.SetAmount(args[0])
			case pct > 0:
				input = stake.SetPercentage(pct)
			default:
				return fmt.Errorf("pass an amount or --pct")
			}
			logrus.WithFields(logrus.Fields{
				"raw":    input.Raw,
				"amount": input.Display(f.Config.Vault.GetDecimals()),
			}).Info("staking")

			if err := stake.Submit(cmd.Context()); err != nil {
				return err
			}
			result, err := stake.Result()
			if err != nil {
				return err
			}
			fmt.Println(asJson(result))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&pct, "pct", 0, "Stake a percentage of the primary balance instead of an amount.")
	cmd.Flags().BoolVar(&approveMax, "approve-max", false, "Grant an unlimited allowance when an approval is needed.")
	cmd.Flags().StringVar(&receiver, "receiver", "", "Receive the shares at this address instead of the owner.")
	return cmd
}
