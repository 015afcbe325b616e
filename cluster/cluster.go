/*
Package cluster grows and tests a random forest among the processes of a
distributed job.

Every rank grows its share of the trees on the whole training set, the
shares are gathered on rank 0 and broadcast back so every rank holds the
whole forest, and every rank tests the forest on its share of the testing
set before the correct decisions of all ranks are added up.
*/
package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/comm"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/tree"
	treejson "github.com/pbanos/grove/tree/json"
)

// Root is the rank that gathers the shards and reduces the test results.
const Root = 0

/*
Config holds the parameters of a distributed run. ForestSize, SampleSize and
Attributes are the size, n and m parameters of forest.Grow for the whole
forest; Workers is the size of the pool each rank grows and tests with.
Every rank seeds its random source with Seed plus its rank. A nil Logger
disables logging.
*/
type Config struct {
	ForestSize int
	SampleSize int
	Attributes int
	Workers    int
	Seed       int64
	Logger     *zap.Logger
}

/*
Result holds what a rank obtained from a distributed run. Correct is the
number of testing samples the forest decided correctly on all ranks
together.
*/
type Result struct {
	Forest       *forest.Forest
	LocalTrees   int
	LocalTested  int
	LocalCorrect int
	Correct      int
	BuildTime    time.Duration
	TestTime     time.Duration
}

/*
Partition takes a number of items, the size of a job and a rank and returns
the range [lo, hi) of items assigned to the rank. Items are split into
contiguous ranges in rank order whose sizes differ at most by one, the first
total % size ranks getting one more item.
*/
func Partition(total, size, rank int) (int, int) {
	base, extra := total/size, total%size
	lo := rank*base + min(rank, extra)
	hi := lo + base
	if rank < extra {
		hi++
	}
	return lo, hi
}

/*
Run takes a context, the Comm of this rank, a configuration, the domain of
the attributes, and the training and testing datasets, which must be the
same on every rank, and runs the distributed job for the rank:

 1. grows the trees in the rank's partition of the forest,
 2. gathers the shards of every rank on the root, in rank order,
 3. broadcasts them from the root,
 4. assembles the whole forest as the shards in rank order,
 5. tests the forest on the rank's partition of the testing set, and
 6. adds the correct decisions of every rank, on every rank.

Any error communicating with other ranks aborts the run and is returned.
*/
func Run(ctx context.Context, c comm.Comm, cfg Config, attrs feature.Domain, training, testing *dataset.Dataset) (*Result, error) {
	if cfg.ForestSize < 0 {
		return nil, grove.ArgumentError("forest size cannot be negative")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rank, size := c.Rank(), c.Size()
	logger = logger.With(zap.Int("rank", rank), zap.Int("size", size))
	result := &Result{}

	start := time.Now()
	lo, hi := Partition(cfg.ForestSize, size, rank)
	result.LocalTrees = hi - lo
	logger.Debug("Growing shard", zap.Int("trees", hi-lo), zap.Int("first", lo))
	shard, err := forest.GrowParallel(ctx, attrs, training, hi-lo, cfg.SampleSize, cfg.Attributes, rand.New(rand.NewSource(cfg.Seed+int64(rank))), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("growing shard: %w", err)
	}
	logger.Info("Shard grown", zap.Int("trees", shard.Len()), zap.Duration("elapsed", time.Since(start)))

	result.Forest, err = exchangeShards(ctx, c, shard.Trees())
	if err != nil {
		return nil, err
	}
	result.BuildTime = time.Since(start)
	nodes, depth := result.Forest.Shape()
	logger.Info("Forest assembled",
		zap.Int("trees", result.Forest.Len()),
		zap.Int("nodes", nodes),
		zap.Int("depth", depth),
		zap.Duration("elapsed", result.BuildTime),
	)

	start = time.Now()
	lo, hi = Partition(testing.Count(), size, rank)
	result.LocalTested = hi - lo
	result.LocalCorrect, err = result.Forest.TestParallel(ctx, testing.Slice(lo, hi), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("testing forest: %w", err)
	}
	correct, err := comm.AllReduceSum(ctx, c, int64(result.LocalCorrect))
	if err != nil {
		return nil, fmt.Errorf("adding up test results: %w", err)
	}
	result.Correct = int(correct)
	result.TestTime = time.Since(start)
	logger.Info("Forest tested",
		zap.Int("tested", result.LocalTested),
		zap.Int("correct", result.LocalCorrect),
		zap.Int("totalCorrect", result.Correct),
		zap.Duration("elapsed", result.TestTime),
	)
	return result, nil
}

/*
exchangeShards gathers the encoded shard of every rank on the root and
broadcasts them as a JSON array, returning the forest made of every shard in
rank order. The trees of this rank's own shard are used as they are.
*/
func exchangeShards(ctx context.Context, c comm.Comm, own []*tree.Tree) (*forest.Forest, error) {
	encoded, err := treejson.MarshalForest(own)
	if err != nil {
		return nil, fmt.Errorf("encoding shard: %w", err)
	}
	shards, err := comm.Gather(ctx, c, Root, encoded)
	if err != nil {
		return nil, fmt.Errorf("gathering shards: %w", err)
	}
	var msg []byte
	if c.Rank() == Root {
		raw := make([]json.RawMessage, len(shards))
		for i, s := range shards {
			raw[i] = s
		}
		if msg, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("encoding shards: %w", err)
		}
	}
	msg, err = comm.Broadcast(ctx, c, Root, msg)
	if err != nil {
		return nil, fmt.Errorf("broadcasting shards: %w", err)
	}
	var raw []json.RawMessage
	if err = json.Unmarshal(msg, &raw); err != nil {
		return nil, fmt.Errorf("decoding shards: %w", err)
	}
	if len(raw) != c.Size() {
		return nil, fmt.Errorf("decoding shards: got %d shards for %d ranks", len(raw), c.Size())
	}
	f := forest.New()
	for rank, s := range raw {
		if rank == c.Rank() {
			f.Append(own...)
			continue
		}
		trees, err := treejson.UnmarshalForest(s)
		if err != nil {
			return nil, fmt.Errorf("decoding shard of rank %d: %w", rank, err)
		}
		f.Append(trees...)
	}
	return f, nil
}
