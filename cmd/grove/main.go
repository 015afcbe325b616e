package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose bool
	logger  *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cliParser().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow random forests",
		Long:  `A tool to grow random forests from categorical data, test them, and use them to make decisions, on one machine or many`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(config.verbose)
			if err != nil {
				return err
			}
			config.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.Logger().Sync()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log debug messages")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), clusterCmd(config))
	return rootCmd
}

// Logger returns the logger of the command, a no-op one if none was set up.
func (rcc *rootCmdConfig) Logger() *zap.Logger {
	if rcc.logger == nil {
		return zap.NewNop()
	}
	return rcc.logger
}
