package dataset

import (
	"fmt"
)

/*
Sample represents a labeled item from which to learn or against which to
test: the values it takes for each attribute and the decision it has.

Samples are immutable once created.
*/
type Sample struct {
	choices  map[string]string
	decision string
}

/*
NewSample takes a map of attribute names to values and a decision and
returns a sample. The map is copied so later changes to it do not affect
the sample.
*/
func NewSample(choices map[string]string, decision string) Sample {
	c := make(map[string]string, len(choices))
	for k, v := range choices {
		c[k] = v
	}
	return Sample{c, decision}
}

/*
ValueFor returns the value of the sample for the attribute with the
given name and whether the sample defines it.
*/
func (s Sample) ValueFor(name string) (string, bool) {
	v, ok := s.choices[name]
	return v, ok
}

// Decision returns the label of the sample.
func (s Sample) Decision() string {
	return s.decision
}

// Choices returns a copy of the attribute values of the sample.
func (s Sample) Choices() map[string]string {
	c := make(map[string]string, len(s.choices))
	for k, v := range s.choices {
		c[k] = v
	}
	return c
}

func (s Sample) String() string {
	return fmt.Sprintf("[%v -> %s]", s.choices, s.decision)
}
