package commands

import (
	"fmt"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/spf13/cobra"
)

func CmdTxInfo() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx-info <hash>",
		Aliases: []string{"tx"},
		Short:   "Check an existing transaction on chain.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := setup.UnwrapFactory(cmd.Context())
			rpcClient, err := f.NewEvmClient()
			if err != nil {
				return fmt.Errorf("could not load client: %v", err)
			}
			confirmation, err := rpcClient.TxInfo(cmd.Context(), vs.TxHash(args[0]))
			if err != nil {
				return fmt.Errorf("could not fetch tx info: %v", err)
			}
			fmt.Println(asJson(confirmation))
			return nil
		},
	}
	return cmd
}
