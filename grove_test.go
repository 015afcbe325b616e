package grove

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
)

var tennisRows = [][]string{
	{"sunny", "hot", "high", "weak", "no"},
	{"sunny", "hot", "high", "strong", "no"},
	{"overcast", "hot", "high", "weak", "yes"},
	{"rain", "mild", "high", "weak", "yes"},
	{"rain", "cool", "normal", "weak", "yes"},
	{"rain", "cool", "normal", "strong", "no"},
	{"overcast", "cool", "normal", "strong", "yes"},
	{"sunny", "mild", "high", "weak", "no"},
	{"sunny", "cool", "normal", "weak", "yes"},
	{"rain", "mild", "normal", "weak", "yes"},
	{"sunny", "mild", "normal", "strong", "yes"},
	{"overcast", "mild", "high", "strong", "yes"},
	{"overcast", "hot", "normal", "weak", "yes"},
	{"rain", "mild", "high", "strong", "no"},
}

var tennisAttributes = []string{"outlook", "temperature", "humidity", "wind"}

func tennis() (feature.Domain, *dataset.Dataset) {
	domain := feature.Domain{}
	samples := make([]dataset.Sample, 0, len(tennisRows))
	for _, row := range tennisRows {
		choices := make(map[string]string)
		for i, name := range tennisAttributes {
			choices[name] = row[i]
			domain.Observe(name, row[i])
		}
		samples = append(samples, dataset.NewSample(choices, row[len(row)-1]))
	}
	return domain, dataset.New(samples)
}

func sample(decision string, kv ...string) dataset.Sample {
	choices := make(map[string]string)
	for i := 0; i+1 < len(kv); i += 2 {
		choices[kv[i]] = kv[i+1]
	}
	return dataset.NewSample(choices, decision)
}

func TestInformationGain(t *testing.T) {
	domain, ds := tennis()
	assert.InDelta(t, 0.2467, InformationGain(ds, domain.Feature("outlook")), 1e-4)
	assert.InDelta(t, 0.0292, InformationGain(ds, domain.Feature("temperature")), 1e-4)
	assert.InDelta(t, 0.1518, InformationGain(ds, domain.Feature("humidity")), 1e-4)
	assert.InDelta(t, 0.0481, InformationGain(ds, domain.Feature("wind")), 1e-4)
	assert.Equal(t, 0.0, InformationGain(dataset.New(nil), domain.Feature("wind")))
}

func TestBestAttribute(t *testing.T) {
	domain, ds := tennis()
	best, ok := BestAttribute(domain, domain.Names(), ds)
	require.True(t, ok)
	assert.Equal(t, "outlook", best)

	best, ok = BestAttribute(domain, []string{"temperature", "wind"}, ds)
	require.True(t, ok)
	assert.Equal(t, "wind", best)

	_, ok = BestAttribute(domain, nil, ds)
	assert.False(t, ok)
}

func TestBestAttributeTieKeepsFirst(t *testing.T) {
	domain := feature.NewDomain(
		feature.NewDiscreteFeature("x", []string{"a", "b"}),
		feature.NewDiscreteFeature("y", []string{"a", "b"}),
	)
	ds := dataset.New([]dataset.Sample{
		sample("A", "x", "a", "y", "a"),
		sample("B", "x", "b", "y", "b"),
	})
	best, ok := BestAttribute(domain, []string{"y", "x"}, ds)
	require.True(t, ok)
	assert.Equal(t, "y", best)
	best, _ = BestAttribute(domain, []string{"x", "y"}, ds)
	assert.Equal(t, "x", best)
}

func TestGrowEmptyDataset(t *testing.T) {
	domain, _ := tennis()
	_, err := Grow(domain, dataset.New(nil), 0, nil)
	assert.Equal(t, ErrEmptyDataset, err)
	var ae ArgumentError
	assert.True(t, errors.As(err, &ae))
}

func TestGrowSingleDecision(t *testing.T) {
	domain, _ := tennis()
	tr, err := Grow(domain, dataset.New([]dataset.Sample{
		sample("yes", "outlook", "sunny"),
		sample("yes", "outlook", "rain"),
	}), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Leaf, tr.Kind())
	assert.Equal(t, "yes", tr.Decision())
}

func TestGrowNoGainIsMajorityLeaf(t *testing.T) {
	domain := feature.NewDomain(feature.NewDiscreteFeature("x", []string{"a", "b"}))
	tr, err := Grow(domain, dataset.New([]dataset.Sample{
		sample("B", "x", "a"),
		sample("A", "x", "a"),
		sample("A", "x", "a"),
	}), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Leaf, tr.Kind())
	assert.Equal(t, "A", tr.Decision())

	tr, err = Grow(feature.Domain{}, dataset.New([]dataset.Sample{
		sample("A", "x", "a"),
		sample("B", "x", "b"),
	}), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Leaf, tr.Kind())
	assert.Equal(t, "A", tr.Decision())
}

func TestGrowZeroGainIsMajorityLeaf(t *testing.T) {
	for nv := 2; nv <= 7; nv++ {
		for na := 1; na <= 3; na++ {
			for nb := 1; nb <= 3; nb++ {
				values := make([]string, nv)
				var samples []dataset.Sample
				for i := range values {
					values[i] = fmt.Sprintf("v%d", i)
					for j := 0; j < na; j++ {
						samples = append(samples, sample("A", "x", values[i]))
					}
					for j := 0; j < nb; j++ {
						samples = append(samples, sample("B", "x", values[i]))
					}
				}
				domain := feature.NewDomain(feature.NewDiscreteFeature("x", values))
				ds := dataset.New(samples)
				name := fmt.Sprintf("%d values %dA %dB", nv, na, nb)

				assert.Equal(t, 0.0, InformationGain(ds, domain.Feature("x")), name)
				_, ok := BestAttribute(domain, domain.Names(), ds)
				assert.False(t, ok, name)
				tr, err := Grow(domain, ds, 0, nil)
				require.NoError(t, err, name)
				assert.Equal(t, tree.Leaf, tr.Kind(), name)
				want := "A"
				if nb > na {
					want = "B"
				}
				assert.Equal(t, want, tr.Decision(), name)
			}
		}
	}
}

func TestBestAttributeEqualGainsKeepFirst(t *testing.T) {
	// x and y split the decisions into the same proportions through
	// different numbers of values
	domain := feature.NewDomain(
		feature.NewDiscreteFeature("x", []string{"a", "b"}),
		feature.NewDiscreteFeature("y", []string{"a", "b", "c", "d"}),
	)
	ds := dataset.New([]dataset.Sample{
		sample("A", "x", "a", "y", "a"),
		sample("B", "x", "a", "y", "a"),
		sample("A", "x", "a", "y", "b"),
		sample("B", "x", "a", "y", "b"),
		sample("A", "x", "b", "y", "c"),
		sample("A", "x", "b", "y", "d"),
	})
	gx := InformationGain(ds, domain.Feature("x"))
	gy := InformationGain(ds, domain.Feature("y"))
	assert.InDelta(t, gx, gy, 1e-12)
	assert.Greater(t, gx, 0.0)

	best, ok := BestAttribute(domain, []string{"x", "y"}, ds)
	require.True(t, ok)
	assert.Equal(t, "x", best)
	best, _ = BestAttribute(domain, []string{"y", "x"}, ds)
	assert.Equal(t, "y", best)
}

func TestGrowTennis(t *testing.T) {
	domain, ds := tennis()
	tr, err := Grow(domain, ds, 0, nil)
	require.NoError(t, err)
	assert.Len(t, domain, 4)

	require.Equal(t, "outlook", tr.Attribute())
	assert.Equal(t, "yes", tr.Decision())
	assert.Equal(t, "humidity", tr.Child("sunny").Attribute())
	assert.Equal(t, "wind", tr.Child("rain").Attribute())
	assert.Equal(t, tree.Leaf, tr.Child("overcast").Kind())

	for _, s := range ds.Samples() {
		d, err := tr.Decide(s)
		require.NoError(t, err)
		assert.Equal(t, s.Decision(), d, "%v", s)
	}
}

func TestGrowUnseenValueGetsParentMajority(t *testing.T) {
	domain := feature.NewDomain(
		feature.NewDiscreteFeature("x", []string{"a", "b", "c"}),
	)
	tr, err := Grow(domain, dataset.New([]dataset.Sample{
		sample("A", "x", "a"),
		sample("B", "x", "b"),
		sample("B", "x", "b"),
	}), 0, nil)
	require.NoError(t, err)
	require.Equal(t, tree.Split, tr.Kind())
	assert.Equal(t, []string{"a", "b", "c"}, tr.Values())
	assert.Equal(t, "A", tr.Child("a").Decision())
	assert.Equal(t, "B", tr.Child("c").Decision())
	assert.Equal(t, tree.Leaf, tr.Child("c").Kind())
}

func TestGrowBranchLocalAttributes(t *testing.T) {
	domain := feature.NewDomain(
		feature.NewDiscreteFeature("x", []string{"a", "b"}),
		feature.NewDiscreteFeature("y", []string{"a", "b"}),
	)
	ds := dataset.New([]dataset.Sample{
		sample("A", "x", "a", "y", "a"),
		sample("B", "x", "a", "y", "b"),
		sample("B", "x", "b", "y", "a"),
		sample("B", "x", "b", "y", "b"),
	})
	tr, err := Grow(domain, ds, 0, nil)
	require.NoError(t, err)
	// both branches of the root split on the remaining attribute
	root := tr.Attribute()
	other := "y"
	if root == "y" {
		other = "x"
	}
	assert.Equal(t, other, tr.Child("a").Attribute())
	assert.Equal(t, tree.Leaf, tr.Child("b").Kind())
	assert.Len(t, domain, 2)
	for _, s := range ds.Samples() {
		d, err := tr.Decide(s)
		require.NoError(t, err)
		assert.Equal(t, s.Decision(), d)
	}
}

func TestGrowRandomSubsets(t *testing.T) {
	domain, ds := tennis()
	a, err := Grow(domain, ds, 2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := Grow(domain, ds, 2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	all, err := Grow(domain, ds, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "outlook", all.Attribute())
}

func TestCandidates(t *testing.T) {
	domain, _ := tennis()
	assert.Equal(t, []string{"humidity", "outlook", "temperature", "wind"}, candidates(domain, 0, nil))
	assert.Equal(t, []string{"humidity", "outlook", "temperature", "wind"}, candidates(domain, 7, nil))

	c := candidates(domain, 2, rand.New(rand.NewSource(1)))
	require.Len(t, c, 2)
	assert.NotEqual(t, c[0], c[1])
	assert.Subset(t, domain.Names(), c)
}
