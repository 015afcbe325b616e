package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	redis "gopkg.in/redis.v5"

	"github.com/pbanos/grove/cluster"
	"github.com/pbanos/grove/comm"
	"github.com/pbanos/grove/comm/rediscomm"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

type clusterCmdConfig struct {
	*rootCmdConfig
	trainingConfig
	rank      int
	size      int
	redisAddr string
	job       string
	local     bool
	output    string
}

func clusterCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &clusterCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Grow and test a forest among several processes",
		Long: `Grow a random forest among several processes, each growing a share of the trees
and testing the whole forest on a share of the testing samples. Processes pass
messages through a redis server, or run as goroutines of this process with --local.
Rank 0 reports the results and outputs the forest.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if config.job == "" {
				config.job = uuid.NewString()
			}
			logger := config.Logger().With(zap.String("job", config.job))
			ctx := cmd.Context()
			domain, training, testing, _, err := config.prepare(ctx, logger)
			if err != nil {
				logger.Error("Loading data", zap.Error(err))
				os.Exit(2)
			}
			var result *cluster.Result
			if config.local {
				result, err = config.runLocal(ctx, logger, domain, training, testing)
			} else {
				result, err = config.runRedis(ctx, logger, domain, training, testing)
			}
			if err != nil {
				logger.Error("Running cluster", zap.Error(err))
				os.Exit(3)
			}
			if result == nil {
				return
			}
			reportTo := os.Stdout
			if config.output == "" {
				reportTo = os.Stderr
			}
			report(reportTo, training.Count(), testing.Count(), result.Correct, result.BuildTime, result.TestTime)
			if err = outputForest(ctx, config.output, result.Forest.Trees()); err != nil {
				logger.Error("Writing forest", zap.Error(err))
				os.Exit(4)
			}
		},
	}
	config.trainingConfig.addFlags(cmd)
	cmd.PersistentFlags().IntVar(&(config.rank), "rank", 0, "rank of this process in the job")
	cmd.PersistentFlags().IntVar(&(config.size), "size", 1, "number of processes in the job")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "localhost:6379", "address of the redis server processes pass messages through")
	cmd.PersistentFlags().StringVar(&(config.job), "job", "", "id of the job shared by all its processes (required unless local, defaults to a random one with local)")
	cmd.PersistentFlags().BoolVar(&(config.local), "local", false, "run every rank of the job as goroutines of this process")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file, or redis://host:port/name URL, to which rank 0 will write the forest in JSON format (defaults to STDOUT)")
	return cmd
}

func (ccc *clusterCmdConfig) Validate() error {
	if err := ccc.trainingConfig.Validate(); err != nil {
		return err
	}
	if ccc.size < 1 {
		return fmt.Errorf("size flag must be positive")
	}
	if ccc.local {
		return nil
	}
	if ccc.rank < 0 || ccc.rank >= ccc.size {
		return fmt.Errorf("rank flag must be between 0 and %d", ccc.size-1)
	}
	if ccc.job == "" {
		return fmt.Errorf("required job flag was not set")
	}
	if ccc.seed == 0 {
		return fmt.Errorf("required seed flag was not set: every process must split the data the same way")
	}
	if ccc.dataInput == "" {
		return fmt.Errorf("required input flag was not set: every process must read the same data")
	}
	return nil
}

func (ccc *clusterCmdConfig) clusterConfig(logger *zap.Logger) cluster.Config {
	return cluster.Config{
		ForestSize: ccc.trees,
		SampleSize: ccc.samples,
		Attributes: ccc.attributes,
		Workers:    ccc.workers,
		Seed:       ccc.seed,
		Logger:     logger,
	}
}

/*
runRedis runs this process's rank of the job, passing messages through
redis. Only rank 0 gets a result back.
*/
func (ccc *clusterCmdConfig) runRedis(ctx context.Context, logger *zap.Logger, domain feature.Domain, training, testing *dataset.Dataset) (*cluster.Result, error) {
	rc := redis.NewClient(&redis.Options{Addr: ccc.redisAddr})
	defer rc.Close()
	if err := rc.Ping().Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %v", ccc.redisAddr, err)
	}
	c, err := rediscomm.New(rc, ccc.job, ccc.rank, ccc.size)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	result, err := cluster.Run(ctx, c, ccc.clusterConfig(logger), domain, training, testing)
	if err != nil || ccc.rank != cluster.Root {
		return nil, err
	}
	return result, nil
}

/*
runLocal runs every rank of the job as goroutines and returns the result of
rank 0.
*/
func (ccc *clusterCmdConfig) runLocal(ctx context.Context, logger *zap.Logger, domain feature.Domain, training, testing *dataset.Dataset) (*cluster.Result, error) {
	var result *cluster.Result
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range comm.NewLocalWorld(ccc.size) {
		c := c
		g.Go(func() error {
			defer c.Close()
			r, err := cluster.Run(gctx, c, ccc.clusterConfig(logger), domain, training, testing)
			if c.Rank() == cluster.Root {
				result = r
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
