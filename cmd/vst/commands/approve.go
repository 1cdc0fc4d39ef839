package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/abi/erc4626"
	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/openvault/vaultstake/tracker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdApprove() *cobra.Command {
	var max bool
	cmd := &cobra.Command{
		Use:   "approve [amount]",
		Short: "Grant the vault a spend allowance on the primary asset.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := setup.UnwrapFactory(cmd.Context())
			if err := requireSigner(f); err != nil {
				return err
			}
			decimals := f.Config.Vault.GetDecimals()

			// Approvals are not clamped to the held balance, granting
			// more than is currently held is legitimate.
			amount := erc4626.MaxAllowance()
			if !max {
				if len(args) == 0 {
					return fmt.Errorf("pass an amount or --max")
				}
				amount = vs.Parse(vs.Sanitize(args[0]), decimals)
				if amount.Sign() <= 0 {
					return fmt.Errorf("amount must be positive")
				}
			}

			rpcClient, err := f.NewEvmClient()
			if err != nil {
				return err
			}
			connector, err := f.NewConnector(rpcClient)
			if err != nil {
				return err
			}
			data, err := erc4626.Approve(vs.Address(f.Config.Vault.VaultContract), amount)
			if err != nil {
				return err
			}
			call := vs.CallParams{
				Kind:     vs.TxApprove,
				Contract: vs.ContractAddress(f.Config.Vault.AssetContract),
				Data:     data,
			}
			logrus.WithField("allowance", amount.String()).Info("approving")

			t := tracker.New(call, connector, rpcClient, rpcClient, f.Config.Chain.ConfirmationTimeout)
			confirmation, err := t.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(asJson(confirmation))
			return nil
		},
	}
	cmd.Flags().BoolVar(&max, "max", false, "Grant an unlimited allowance.")
	return cmd
}
