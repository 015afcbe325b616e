package grove

import (
	"math/rand"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
)

/*
Grow takes a domain with the attributes available to split on, a dataset, the
number m of attributes to consider at each split and a random source, and
returns a decision tree grown from the dataset.

At every node, when m is positive, m distinct attributes are drawn from those
still available using the random source, and the one with the highest
information gain is chosen; all available attributes are considered when m is
not positive or not smaller than their number. A node becomes a leaf with the
majority decision of its samples when they all share a decision, no attributes
remain or no candidate has positive information gain. Otherwise it splits with
a subtree per value of the chosen attribute in the domain; values no sample
takes get a leaf with the majority decision of the node.

The domain is not modified. A nil random source is replaced with one seeded
from the clock. ErrEmptyDataset is returned if the dataset has no samples.
*/
func Grow(attrs feature.Domain, ds *dataset.Dataset, m int, rng *rand.Rand) (*tree.Tree, error) {
	if ds == nil || ds.Count() == 0 {
		return nil, ErrEmptyDataset
	}
	if rng == nil && m > 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return grow(attrs, ds, m, rng), nil
}

func grow(attrs feature.Domain, ds *dataset.Dataset, m int, rng *rand.Rand) *tree.Tree {
	decisions := ds.Decisions()
	majority, _ := decisions.Mode()
	if decisions.Len() == 1 || len(attrs) == 0 {
		return tree.NewLeaf(majority)
	}
	p := bestPartition(attrs, candidates(attrs, m, rng), ds)
	if p == nil {
		return tree.NewLeaf(majority)
	}
	stAttrs := attrs.Without(p.Feature.Name())
	children := make(map[string]*tree.Tree, len(p.Subsets))
	for i, value := range p.Feature.AvailableValues() {
		subset := p.Subsets[i]
		if subset.Count() == 0 {
			children[value] = tree.NewLeaf(majority)
			continue
		}
		children[value] = grow(stAttrs, subset, m, rng)
	}
	return tree.NewSplit(p.Feature.Name(), children, majority)
}

/*
candidates returns the names of the attributes to evaluate for a split: all of
them, sorted, when m is not positive or not smaller than their number, and
otherwise m of them drawn without replacement in the order drawn.
*/
func candidates(attrs feature.Domain, m int, rng *rand.Rand) []string {
	names := attrs.Names()
	if m <= 0 || m >= len(names) {
		return names
	}
	for i := 0; i < m; i++ {
		j := i + rng.Intn(len(names)-i)
		names[i], names[j] = names[j], names[i]
	}
	return names[:m]
}
