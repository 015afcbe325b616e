/*
Package forest provides random forests: ensembles of decision trees grown on
bootstrap samples of a dataset that decide on samples by majority vote.
*/
package forest

import (
	"errors"
	"math/rand"
	"time"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/counter"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
)

// Error represents an error deciding with a forest
type Error string

// ErrEmptyForest is returned when deciding with a forest that has no trees.
const ErrEmptyForest = Error("forest has no trees to decide with")

func (e Error) Error() string {
	return string(e)
}

/*
Forest is an ordered collection of decision trees that vote on the decision
for a sample.

A Forest may be appended to while it is being assembled, but it is only safe
for concurrent use once no more trees are appended.
*/
type Forest struct {
	trees []*tree.Tree
}

// New returns a forest with the given trees.
func New(trees ...*tree.Tree) *Forest {
	return &Forest{trees: append([]*tree.Tree(nil), trees...)}
}

// Append adds the given trees at the end of the forest.
func (f *Forest) Append(trees ...*tree.Tree) {
	f.trees = append(f.trees, trees...)
}

// Len returns the number of trees in the forest.
func (f *Forest) Len() int {
	return len(f.trees)
}

/*
Shape returns the number of nodes of all the trees in the forest and the
depth of the deepest one.
*/
func (f *Forest) Shape() (int, int) {
	var nodes, depth int
	for _, t := range f.trees {
		nodes += t.Size()
		if d := t.Depth(); d > depth {
			depth = d
		}
	}
	return nodes, depth
}

// Trees returns the trees in the forest. The slice must not be modified.
func (f *Forest) Trees() []*tree.Tree {
	return f.trees
}

/*
Votes takes a sample and returns a counter with the decision of every tree
in the forest on it, added in the order of the trees. A tree that reaches a
split without a branch for the value of the sample votes for the majority
decision of that split.
*/
func (f *Forest) Votes(s feature.Sample) (*counter.Counter[string], error) {
	votes := counter.New[string]()
	for _, t := range f.trees {
		d, err := t.Decide(s)
		if err != nil {
			var uve *tree.UnknownValueError
			if !errors.As(err, &uve) {
				return nil, err
			}
			d = uve.Fallback
		}
		votes.Add(d)
	}
	return votes, nil
}

/*
Decide takes a sample and returns the decision most trees in the forest make
for it. Ties are resolved in favour of the decision that reached the winning
count first, in the order of the trees. ErrEmptyForest is returned when the
forest has no trees.
*/
func (f *Forest) Decide(s feature.Sample) (string, error) {
	if len(f.trees) == 0 {
		return "", ErrEmptyForest
	}
	votes, err := f.Votes(s)
	if err != nil {
		return "", err
	}
	d, _ := votes.Mode()
	return d, nil
}

/*
Test takes a dataset and returns the number of its samples for which the
forest decides the decision of the sample.
*/
func (f *Forest) Test(ds *dataset.Dataset) (int, error) {
	return f.testRange(ds, 0, ds.Count())
}

func (f *Forest) testRange(ds *dataset.Dataset, lo, hi int) (int, error) {
	var correct int
	for i := lo; i < hi; i++ {
		s := ds.Sample(i)
		d, err := f.Decide(s)
		if err != nil {
			return 0, err
		}
		if d == s.Decision() {
			correct++
		}
	}
	return correct, nil
}

/*
Grow takes a domain, a training dataset, the number of trees to grow, the
number n of samples to draw with replacement from the dataset for each tree,
the number m of attributes to consider at each split and a random source, and
returns a forest grown one tree after another.

When n is not positive the size of the dataset is used. A nil random source
is replaced with one seeded from the clock. Each tree draws its samples and
attributes from its own source, seeded from the given one in the order of the
trees, so GrowParallel grows the same forest for the same random source.
*/
func Grow(attrs feature.Domain, ds *dataset.Dataset, size, n, m int, rng *rand.Rand) (*Forest, error) {
	b, err := newBuilder(attrs, ds, size, n, m, rng)
	if err != nil {
		return nil, err
	}
	trees := make([]*tree.Tree, size)
	for i := range trees {
		if trees[i], err = b.grow(i); err != nil {
			return nil, err
		}
	}
	return &Forest{trees: trees}, nil
}

type builder struct {
	attrs feature.Domain
	ds    *dataset.Dataset
	n, m  int
	seeds []int64
}

func newBuilder(attrs feature.Domain, ds *dataset.Dataset, size, n, m int, rng *rand.Rand) (*builder, error) {
	if ds == nil || ds.Count() == 0 {
		return nil, grove.ErrEmptyDataset
	}
	if size < 0 {
		return nil, grove.ArgumentError("forest size cannot be negative")
	}
	if n <= 0 {
		n = ds.Count()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	seeds := make([]int64, size)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return &builder{attrs, ds, n, m, seeds}, nil
}

func (b *builder) grow(i int) (*tree.Tree, error) {
	r := rand.New(rand.NewSource(b.seeds[i]))
	return grove.Grow(b.attrs, b.ds.Bootstrap(r, b.n), b.m, r)
}
