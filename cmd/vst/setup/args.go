package setup

import (
	"context"
	"fmt"
	"os"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/config/constants"
	"github.com/openvault/vaultstake/factory"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ContextKey string

const ContextFactory ContextKey = "factory"

type Args struct {
	ConfigPath     string
	Rpc            string
	Priority       string
	VerbosityCount int
}

func AddArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", fmt.Sprintf("Path to config.yaml (may set %s).", constants.ConfigEnv))
	cmd.PersistentFlags().String("rpc", "", "RPC url to use. Optional, overrides configuration.")
	cmd.PersistentFlags().String("priority", "", "Gas fee priority: low, market, aggressive, very-aggressive, or a decimal multiplier.")
	cmd.PersistentFlags().CountP("verbose", "v", "Set verbosity.")
}

func ArgsFromCmd(cmd *cobra.Command) (*Args, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	rpc, _ := cmd.Flags().GetString("rpc")
	priority, _ := cmd.Flags().GetString("priority")
	count, _ := cmd.Flags().GetCount("verbose")

	return &Args{
		ConfigPath:     configPath,
		Rpc:            rpc,
		Priority:       priority,
		VerbosityCount: count,
	}, nil
}

func ConfigureLogger(args *Args) {
	if args.VerbosityCount == 0 {
		logrus.SetLevel(logrus.WarnLevel)
	}
	if args.VerbosityCount == 1 {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if args.VerbosityCount == 2 {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if args.VerbosityCount >= 3 {
		logrus.SetLevel(logrus.TraceLevel)
	}
}

func LoadFactory(args *Args) (*factory.Factory, error) {
	if args.ConfigPath != "" {
		// the loader resolves the config file through the env
		_ = os.Setenv(constants.ConfigEnv, args.ConfigPath)
	}
	f, err := factory.NewDefaultFactory()
	if err != nil {
		return nil, err
	}
	if args.Rpc != "" {
		logrus.WithField("rpc", args.Rpc).Info("overriding rpc")
		f.Config.Chain.URL = args.Rpc
	}
	if args.Priority != "" {
		priority, err := vs.NewPriority(args.Priority)
		if err != nil {
			return nil, fmt.Errorf("invalid priority: %v", err)
		}
		f.Config.Connector.Priority = priority
	}
	return f, nil
}

func CreateContext(ctx context.Context, f *factory.Factory) context.Context {
	return context.WithValue(ctx, ContextFactory, f)
}

func UnwrapFactory(ctx context.Context) *factory.Factory {
	return ctx.Value(ContextFactory).(*factory.Factory)
}
