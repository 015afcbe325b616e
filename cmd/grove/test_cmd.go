package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbanos/grove/forest"
)

type testCmdConfig struct {
	*rootCmdConfig
	dataConfig
	forestInput string
	workers     int
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a forest",
		Long:  `Test the performance of a forest against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			logger := config.Logger()
			trees, err := loadForest(cmd.Context(), config.forestInput)
			if err != nil {
				logger.Error("Loading forest", zap.Error(err))
				os.Exit(2)
			}
			_, testing, err := config.load(cmd.Context(), logger)
			if err != nil {
				logger.Error("Loading data", zap.Error(err))
				os.Exit(3)
			}
			logger.Info("Testing forest", zap.Int("trees", len(trees)), zap.Int("samples", testing.Count()))
			start := time.Now()
			correct, err := forest.New(trees...).TestParallel(cmd.Context(), testing, config.workers)
			if err != nil {
				logger.Error("Testing forest", zap.Error(err))
				os.Exit(4)
			}
			reportTests(os.Stdout, testing.Count(), correct)
			fmt.Printf("Forest testing time: %d ms\n", time.Since(start).Milliseconds())
		},
	}
	config.dataConfig.addFlags(cmd, "test the forest against")
	cmd.PersistentFlags().StringVarP(&(config.forestInput), "forest", "f", "", "path to a file, or redis://host:port/name URL, from which the forest to test will be read and parsed as JSON (required)")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 0, "number of goroutines testing samples (defaults to 0: one per CPU)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.forestInput == "" {
		return fmt.Errorf("required forest flag was not set")
	}
	return tcc.dataConfig.Validate()
}
