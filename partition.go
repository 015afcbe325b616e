package grove

import (
	"math"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

/*
gainEpsilon bounds the rounding error of an information gain. Gains closer
to 0 than it are 0, and a gain must exceed another by more than it to be
considered higher.
*/
const gainEpsilon = 1e-12

/*
Partition represents a partition of a dataset according to an attribute into
a subset for each value of the attribute, with the information gain it
provides on the decisions of the samples.
*/
type Partition struct {
	Feature         *feature.DiscreteFeature
	Subsets         []*dataset.Dataset
	InformationGain float64
}

/*
NewPartition takes a dataset and a discrete feature and returns the
partition of the dataset for the feature: one subset per available value of
the feature, in the order of the values, each holding the samples that take
that value.
*/
func NewPartition(ds *dataset.Dataset, f *feature.DiscreteFeature) *Partition {
	availableValues := f.AvailableValues()
	subsets := make([]*dataset.Dataset, 0, len(availableValues))
	informationGain := ds.Entropy()
	totalCount := float64(ds.Count())
	for _, value := range availableValues {
		subset := ds.SubsetWith(feature.NewDiscreteCriterion(f, value))
		subsets = append(subsets, subset)
		if subset.Count() > 0 {
			informationGain -= subset.Entropy() * float64(subset.Count()) / totalCount
		}
	}
	if math.Abs(informationGain) < gainEpsilon {
		informationGain = 0
	}
	return &Partition{f, subsets, informationGain}
}

/*
InformationGain takes a dataset and a discrete feature and returns the
reduction on the entropy of the dataset obtained by partitioning it on the
feature. It returns 0 for an empty dataset.
*/
func InformationGain(ds *dataset.Dataset, f *feature.DiscreteFeature) float64 {
	if ds.Count() == 0 {
		return 0
	}
	return NewPartition(ds, f).InformationGain
}

/*
BestAttribute takes a domain, the names of the candidate attributes and a
dataset, and returns the name of the candidate with the highest information
gain on the dataset. Candidates are evaluated in order and a later one only
wins with a strictly higher gain, differences within rounding error counting
as ties. If no candidate has a positive gain, false is returned.
*/
func BestAttribute(attrs feature.Domain, candidates []string, ds *dataset.Dataset) (string, bool) {
	p := bestPartition(attrs, candidates, ds)
	if p == nil {
		return "", false
	}
	return p.Feature.Name(), true
}

func bestPartition(attrs feature.Domain, candidates []string, ds *dataset.Dataset) *Partition {
	if ds.Count() == 0 {
		return nil
	}
	var selected *Partition
	bestGain := 0.0
	for _, name := range candidates {
		f := attrs.Feature(name)
		if f == nil {
			continue
		}
		p := NewPartition(ds, f)
		if p.InformationGain > bestGain+gainEpsilon {
			selected = p
			bestGain = p.InformationGain
		}
	}
	return selected
}
