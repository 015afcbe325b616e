/*
Package tree provides the decision trees grown from datasets and the means
to decide on samples with them.
*/
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pbanos/grove/feature"
)

// Kind tells leaves from split nodes.
type Kind int

const (
	// Leaf nodes carry a decision.
	Leaf Kind = iota
	// Split nodes ask about an attribute and have a child per value.
	Split
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Split:
		return "split"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Tree represents a decision tree or a node in one. It is either a leaf with a
decision or a split on an attribute with a subtree for each value the
attribute may take. Trees are immutable once built.
*/
type Tree struct {
	kind      Kind
	decision  string
	attribute string
	values    []string
	children  map[string]*Tree
}

// NewLeaf returns a leaf that decides the given decision.
func NewLeaf(decision string) *Tree {
	return &Tree{kind: Leaf, decision: decision}
}

/*
NewSplit takes an attribute name, a map of values of the attribute to the
subtree for each one, and the majority decision of the samples at the node,
and returns a split node. The map is copied. Nil subtrees are not allowed and
make NewSplit panic.
*/
func NewSplit(attribute string, children map[string]*Tree, majority string) *Tree {
	t := &Tree{
		kind:      Split,
		decision:  majority,
		attribute: attribute,
		values:    make([]string, 0, len(children)),
		children:  make(map[string]*Tree, len(children)),
	}
	for v, c := range children {
		if c == nil {
			panic(fmt.Sprintf("nil subtree for value %s of attribute %s", v, attribute))
		}
		t.values = append(t.values, v)
		t.children[v] = c
	}
	sort.Strings(t.values)
	return t
}

// Kind returns whether the node is a leaf or a split.
func (t *Tree) Kind() Kind {
	return t.kind
}

// Decision returns the decision of a leaf, or the majority decision of a split.
func (t *Tree) Decision() string {
	return t.decision
}

// Attribute returns the attribute a split node asks about, "" for leaves.
func (t *Tree) Attribute() string {
	return t.attribute
}

// Values returns the sorted values a split node has a subtree for.
func (t *Tree) Values() []string {
	return append([]string(nil), t.values...)
}

// Child returns the subtree for the given value, nil if there is none.
func (t *Tree) Child(value string) *Tree {
	return t.children[value]
}

/*
Decide takes a sample and walks the tree from the root to a leaf choosing at
each split the subtree for the value the sample takes for its attribute. It
returns the decision of the leaf reached.

If the sample has no value for the attribute of a split, or a value without a
subtree, an *UnknownValueError is returned with the majority decision of that
split as fallback.
*/
func (t *Tree) Decide(s feature.Sample) (string, error) {
	if t == nil {
		return "", ErrNilTree
	}
	n := t
	for n.kind == Split {
		v, ok := s.ValueFor(n.attribute)
		child := n.children[v]
		if !ok || child == nil {
			return "", &UnknownValueError{Attribute: n.attribute, Value: v, Defined: ok, Fallback: n.decision}
		}
		n = child
	}
	return n.decision, nil
}

/*
Traverse takes a bottomup boolean and an error-returning function that takes
a node, and goes through the tree calling the function with every node.
Traverse will call the function with a parent node before calling it for its
children if bottomup is false, and after its children if bottomup is true.
Children are visited in the order of their values. If the function returns an
error, the traversing is aborted and the error is returned.
*/
func (t *Tree) Traverse(bottomup bool, f func(*Tree) error) error {
	if !bottomup {
		if err := f(t); err != nil {
			return err
		}
	}
	for _, v := range t.values {
		if err := t.children[v].Traverse(bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(t)
	}
	return nil
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	var n int
	t.Traverse(false, func(*Tree) error {
		n++
		return nil
	})
	return n
}

// Depth returns the number of edges on the longest path from the root to a leaf.
func (t *Tree) Depth() int {
	var d int
	for _, c := range t.children {
		if cd := c.Depth() + 1; cd > d {
			d = cd
		}
	}
	return d
}

func (t *Tree) String() string {
	return t.subtreeString()
}

func (t *Tree) subtreeString() string {
	if t.kind == Leaf {
		return fmt.Sprintf("{ %s }\n", t.decision)
	}
	result := fmt.Sprintf("[%s] (majority %s)\n|\n", t.attribute, t.decision)
	for i, v := range t.values {
		for j, line := range strings.Split(t.children[v].subtreeString(), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s is %s: %s\n", result, t.attribute, v, line)
			case i == len(t.values)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
