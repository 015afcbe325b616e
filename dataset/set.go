/*
Package dataset provides samples and the collections of samples trees are
grown from and tested against.
*/
package dataset

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pbanos/grove/counter"
	"github.com/pbanos/grove/feature"
)

/*
Dataset represents an immutable collection of samples.

Its Entropy method returns the entropy of the dataset over decisions: a
measure of the disinformation we have on the decisions of samples that
belong to it.

Its SubsetWith method takes a feature.Criterion and returns a subset that
only contains samples that satisfy it.
*/
type Dataset struct {
	samples     []Sample
	entropyOnce sync.Once
	entropy     float64
}

/*
New takes a slice of samples and returns a dataset built with them.
The slice is not copied and must not be modified afterwards.
*/
func New(samples []Sample) *Dataset {
	return &Dataset{samples: samples}
}

// Count returns the number of samples in the dataset.
func (s *Dataset) Count() int {
	return len(s.samples)
}

// Samples returns the samples in the dataset. The slice must not be modified.
func (s *Dataset) Samples() []Sample {
	return s.samples
}

// Sample returns the i-th sample of the dataset.
func (s *Dataset) Sample(i int) Sample {
	return s.samples[i]
}

/*
Decisions returns a counter with the decisions of the samples, added in the
order of the samples.
*/
func (s *Dataset) Decisions() *counter.Counter[string] {
	c := counter.New[string]()
	for _, sample := range s.samples {
		c.Add(sample.decision)
	}
	return c
}

/*
Entropy returns the Shannon entropy in bits of the decisions of the samples
in the dataset. An empty dataset has entropy 0. The result is computed once,
as datasets are immutable, and it is safe to call concurrently.
*/
func (s *Dataset) Entropy() float64 {
	s.entropyOnce.Do(func() {
		decisions := s.Decisions()
		count := float64(decisions.Total())
		decisions.Each(func(_ string, n int) {
			probValue := float64(n) / count
			s.entropy -= probValue * math.Log2(probValue)
		})
	})
	return s.entropy
}

/*
SubsetWith takes a criterion and returns a dataset with the samples that
satisfy it, in their original order.
*/
func (s *Dataset) SubsetWith(fc feature.Criterion) *Dataset {
	var samples []Sample
	for _, sample := range s.samples {
		if fc.SatisfiedBy(sample) {
			samples = append(samples, sample)
		}
	}
	return New(samples)
}

/*
Slice returns a dataset with the samples with indexes in [lo, hi).
*/
func (s *Dataset) Slice(lo, hi int) *Dataset {
	return New(s.samples[lo:hi])
}

/*
Bootstrap takes a random source and a number n and returns a dataset of n
samples drawn uniformly with replacement from this one.
*/
func (s *Dataset) Bootstrap(r *rand.Rand, n int) *Dataset {
	if len(s.samples) == 0 || n <= 0 {
		return New(nil)
	}
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = s.samples[r.Intn(len(s.samples))]
	}
	return New(samples)
}

/*
Shuffle takes a random source and returns a dataset with the same samples in
a random order.
*/
func (s *Dataset) Shuffle(r *rand.Rand) *Dataset {
	samples := make([]Sample, len(s.samples))
	copy(samples, s.samples)
	r.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	return New(samples)
}

/*
Split takes a fraction in [0, 1] and returns two datasets: the first
holding the leading int(fraction * count) samples, and the second holding
the rest.
*/
func (s *Dataset) Split(fraction float64) (*Dataset, *Dataset) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	n := int(float64(len(s.samples)) * fraction)
	return s.Slice(0, n), s.Slice(n, len(s.samples))
}
