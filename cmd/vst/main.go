package main

import (
	"github.com/openvault/vaultstake/cmd/vst/commands"
	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdVst() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vst",
		Short:        "Stake into and out of the configured vault",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			args, err := setup.ArgsFromCmd(cmd)
			if err != nil {
				return err
			}
			setup.ConfigureLogger(args)

			f, err := setup.LoadFactory(args)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"rpc":   f.Config.Chain.URL,
				"chain": f.Config.Chain.Chain,
				"vault": f.Config.Vault.VaultContract,
			}).Info("chain")
			cmd.SetContext(setup.CreateContext(cmd.Context(), f))
			return nil
		},
	}
	setup.AddArgs(cmd)

	cmd.AddCommand(commands.CmdAddress())
	cmd.AddCommand(commands.CmdBalances())
	cmd.AddCommand(commands.CmdStats())
	cmd.AddCommand(commands.CmdApprove())
	cmd.AddCommand(commands.CmdStake())
	cmd.AddCommand(commands.CmdUnstake())
	cmd.AddCommand(commands.CmdTxInfo())
	cmd.AddCommand(commands.CmdMonitor())

	return cmd
}

func main() {
	rootCmd := CmdVst()
	_ = rootCmd.Execute()
}
