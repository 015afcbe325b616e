package feature

import "fmt"

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the attribute
with the given name and whether the sample defines it.
*/
type Sample interface {
	ValueFor(name string) (string, bool)
}

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the sample satisfies the feature criterion.
*/
type Criterion interface {
	SatisfiedBy(sample Sample) bool
}

type discreteCriterion struct {
	feature *DiscreteFeature
	value   string
}

/*
NewDiscreteCriterion takes a DiscreteFeature and a value and returns a
Criterion satisfied by samples taking that value for the feature.
*/
func NewDiscreteCriterion(feature *DiscreteFeature, value string) Criterion {
	return &discreteCriterion{feature, value}
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature, and otherwise whether the value equals the
value on the criterion.
*/
func (dfc *discreteCriterion) SatisfiedBy(sample Sample) bool {
	val, ok := sample.ValueFor(dfc.feature.Name())
	if !ok {
		return false
	}
	return dfc.value == val
}

func (dfc *discreteCriterion) String() string {
	return fmt.Sprintf("%s is %s", dfc.feature.Name(), dfc.value)
}
