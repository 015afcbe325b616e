package tree

import "fmt"

// Error represents an error deciding on samples with a tree
type Error string

/*
ErrNilTree is the error returned when trying to decide on a sample with a nil
tree.
*/
const ErrNilTree = Error("nil tree cannot decide on samples")

func (e Error) Error() string {
	return string(e)
}

/*
UnknownValueError is returned by Decide when a sample reaches a split node
and takes a value for its attribute that has no branch, or no value at all.

Fallback holds the majority decision of the samples the split node was grown
from, which callers may use as the decision of the tree for the sample.
*/
type UnknownValueError struct {
	Attribute string
	Value     string
	Defined   bool
	Fallback  string
}

func (e *UnknownValueError) Error() string {
	if !e.Defined {
		return fmt.Sprintf("sample has no value for attribute %s", e.Attribute)
	}
	return fmt.Sprintf("no branch for value %s of attribute %s", e.Value, e.Attribute)
}
