package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/forest"
)

/*
trainingConfig holds the flags to grow a forest and test it: where the data
is, how to split it into training and testing samples and the parameters of
the forest.
*/
type trainingConfig struct {
	dataConfig
	trees      int
	samples    int
	attributes int
	split      float64
	seed       int64
	workers    int
}

func (tc *trainingConfig) addFlags(cmd *cobra.Command) {
	tc.dataConfig.addFlags(cmd, "grow and test the forest")
	cmd.PersistentFlags().IntVarP(&(tc.trees), "trees", "t", 10, "number of trees in the forest")
	cmd.PersistentFlags().IntVarP(&(tc.samples), "samples", "n", 0, "number of samples drawn with replacement to grow each tree (defaults to 0: as many as training samples)")
	cmd.PersistentFlags().IntVarP(&(tc.attributes), "attributes", "a", 0, "number of attributes drawn to choose from at each split (defaults to 0: all of them)")
	cmd.PersistentFlags().Float64VarP(&(tc.split), "split", "s", 75, "percentage of the samples used to grow the forest, the rest being used to test it")
	cmd.PersistentFlags().Int64Var(&(tc.seed), "seed", 0, "seed for the random choices (defaults to 0: seeded from the clock)")
	cmd.PersistentFlags().IntVarP(&(tc.workers), "workers", "w", 0, "number of goroutines growing and testing trees, 1 to grow them one after another (defaults to 0: one per CPU)")
}

func (tc *trainingConfig) Validate() error {
	if err := tc.dataConfig.Validate(); err != nil {
		return err
	}
	if tc.trees < 1 {
		return fmt.Errorf("trees flag must be positive")
	}
	if tc.split < 0 || tc.split > 100 {
		return fmt.Errorf("split flag must be a percentage between 0 and 100")
	}
	return nil
}

/*
prepare loads the data, shuffles it and splits it into training and testing
datasets. It returns the random source it shuffled with, to be used for the
rest of the random choices.
*/
func (tc *trainingConfig) prepare(ctx context.Context, logger *zap.Logger) (feature.Domain, *dataset.Dataset, *dataset.Dataset, *rand.Rand, error) {
	if tc.seed == 0 {
		tc.seed = time.Now().UnixNano()
	}
	logger.Debug("Seeding random choices", zap.Int64("seed", tc.seed))
	rng := rand.New(rand.NewSource(tc.seed))
	domain, ds, err := tc.load(ctx, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	training, testing := ds.Shuffle(rng).Split(tc.split / 100)
	return domain, training, testing, rng, nil
}

type growCmdConfig struct {
	*rootCmdConfig
	trainingConfig
	output string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a forest from a set of data",
		Long:  `Grow a random forest from part of a set of data, test it against the rest and output it`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := cmd.Context()
			logger := config.Logger()
			domain, training, testing, rng, err := config.prepare(ctx, logger)
			if err != nil {
				logger.Error("Loading data", zap.Error(err))
				os.Exit(2)
			}
			logger.Info("Growing forest",
				zap.Int("trees", config.trees),
				zap.Int("trainingSamples", training.Count()),
				zap.Int("attributes", len(domain)),
				zap.Int("workers", config.workers),
			)
			start := time.Now()
			var f *forest.Forest
			if config.workers == 1 {
				f, err = forest.Grow(domain, training, config.trees, config.samples, config.attributes, rng)
			} else {
				f, err = forest.GrowParallel(ctx, domain, training, config.trees, config.samples, config.attributes, rng, config.workers)
			}
			if err != nil {
				logger.Error("Growing forest", zap.Error(err))
				os.Exit(3)
			}
			buildTime := time.Since(start)
			nodes, depth := f.Shape()
			logger.Info("Forest grown",
				zap.Int("trees", f.Len()),
				zap.Int("nodes", nodes),
				zap.Int("depth", depth),
				zap.Duration("elapsed", buildTime),
			)
			start = time.Now()
			correct, err := f.TestParallel(ctx, testing, config.workers)
			if err != nil {
				logger.Error("Testing forest", zap.Error(err))
				os.Exit(4)
			}
			testTime := time.Since(start)
			// the forest goes to STDOUT unless an output file is given
			reportTo := os.Stdout
			if config.output == "" {
				reportTo = os.Stderr
			}
			report(reportTo, training.Count(), testing.Count(), correct, buildTime, testTime)
			if err = outputForest(ctx, config.output, f.Trees()); err != nil {
				logger.Error("Writing forest", zap.Error(err))
				os.Exit(5)
			}
		},
	}
	config.trainingConfig.addFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file, or redis://host:port/name URL, to which the forest will be written in JSON format (defaults to STDOUT)")
	return cmd
}

/*
report writes the summary of growing and testing a forest.
*/
func report(w io.Writer, trained, tested, correct int, buildTime, testTime time.Duration) {
	fmt.Fprintf(w, "%d samples used to train the forest.\n", trained)
	fmt.Fprintf(w, "%d samples used to test the forest.\n", tested)
	reportTests(w, tested, correct)
	fmt.Fprintf(w, "Forest construction time: %d ms\n", buildTime.Milliseconds())
	fmt.Fprintf(w, "Forest testing time: %d ms\n", testTime.Milliseconds())
}

func reportTests(w io.Writer, tested, correct int) {
	var percent float64
	if tested > 0 {
		percent = 100 * float64(correct) / float64(tested)
	}
	fmt.Fprintf(w, "%.2f%% (%d/%d) tests passed.\n", percent, correct, tested)
}
