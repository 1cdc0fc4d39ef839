package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	vs "github.com/openvault/vaultstake"
	"github.com/spf13/cobra"
)

func CmdMonitor() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll balances and vault stats on the configured cadences, printing each refresh until interrupted.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, session, err := loadSession(cmd)
			if err != nil {
				return err
			}
			decimals := f.Config.Vault.GetDecimals()
			staleMark := func(stale bool) string {
				if stale {
					return " (stale)"
				}
				return ""
			}
			session.Poller().OnBalance(func(snap vs.BalanceSnapshot) {
				fmt.Printf("balances  primary=%s shares=%s value=%s allowance=%s%s\n",
					vs.FormatDefault(snap.PrimaryBalance, decimals),
					vs.FormatDefault(snap.ShareBalance, decimals),
					vs.FormatDefault(snap.ShareValueInPrimary, decimals),
					vs.FormatDefault(snap.Allowance, decimals),
					staleMark(snap.Stale),
				)
			})
			session.Poller().OnStats(func(stats vs.VaultStats) {
				fmt.Printf("stats     managed=%s share_price=%s apy=%s%s\n",
					vs.FormatDefault(stats.TotalAssets, decimals),
					vs.FormatDefault(stats.SharePrice, decimals),
					vs.FormatPercent(stats.APY),
					staleMark(stats.Stale),
				)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			session.Start(ctx)
			<-ctx.Done()
			session.Close()
			return nil
		},
	}
	return cmd
}
