package commands

import (
	"fmt"

	"github.com/openvault/vaultstake/cmd/vst/setup"
	"github.com/spf13/cobra"
)

func CmdAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the owner address the configured connector signs for.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := setup.UnwrapFactory(cmd.Context())
			connector, err := f.NewConnector(nil)
			if err != nil {
				return err
			}
			fmt.Println(connector.Address())
			return nil
		},
	}
	return cmd
}
