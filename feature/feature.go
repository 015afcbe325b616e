/*
Package feature defines the attributes samples are described with and the
domains of values they may take.
*/
package feature

import (
	"fmt"
	"sort"
)

/*
DiscreteFeature represents an attribute that can be observed and that can
only take a value among a finite set.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
Duplicated values are kept only once, in the position they first appear.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	df := &DiscreteFeature{name: name}
	for _, v := range availableValues {
		df.observe(v)
	}
	return df
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives a value and returns a boolean and an error. When the value is
included in the available values of the feature, the method returns true and
nil. Otherwise it returns false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value string) (bool, error) {
	for _, av := range df.availableValues {
		if av == value {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), value)
}

/*
AvailableValues returns a string slice with the values available for the
feature, in the order they were first observed. The returned slice must not
be modified.
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

func (df *DiscreteFeature) observe(value string) bool {
	for _, av := range df.availableValues {
		if av == value {
			return false
		}
	}
	df.availableValues = append(df.availableValues, value)
	return true
}

/*
Domain maps attribute names to the discrete features describing the values
each attribute may take.

A Domain passed to a tree builder is never modified by it: Without returns
copies, so every branch of a tree owns the attributes it may still split on.
*/
type Domain map[string]*DiscreteFeature

/*
NewDomain takes discrete features and returns a domain holding them.
*/
func NewDomain(features ...*DiscreteFeature) Domain {
	d := make(Domain, len(features))
	for _, f := range features {
		d[f.Name()] = f
	}
	return d
}

/*
Names returns the attribute names in the domain, sorted.
*/
func (d Domain) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Feature returns the feature for the named attribute, nil if absent.
func (d Domain) Feature(name string) *DiscreteFeature {
	return d[name]
}

/*
Without takes an attribute name and returns a copy of the domain that does
not include it. The receiver is left untouched.
*/
func (d Domain) Without(name string) Domain {
	result := make(Domain, len(d))
	for n, f := range d {
		if n != name {
			result[n] = f
		}
	}
	return result
}

/*
Observe takes an attribute name and a value and records the value as
available for the attribute, creating the attribute if needed. It is meant to
be used by loaders while a domain is being accumulated from data, before any
tree is grown with it.
*/
func (d Domain) Observe(name, value string) {
	f, ok := d[name]
	if !ok {
		f = &DiscreteFeature{name: name}
		d[name] = f
	}
	f.observe(value)
}
