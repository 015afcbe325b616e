package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/grove/tree"
)

/*
node is the JSON representation of a tree node. Leaves only carry the
decision, while splits carry the attribute, the majority decision and the
subtree for each value. Splits are told apart by their subtrees, as the
attribute is omitted when empty:

	{"d":"yes"}
	{"a":"outlook","d":"yes","c":{"rain":{"d":"yes"},"sunny":{...}}}
*/
type node struct {
	Attribute string           `json:"a,omitempty"`
	Decision  string           `json:"d"`
	Children  map[string]*node `json:"c,omitempty"`
}

func encodeNode(t *tree.Tree) (*node, error) {
	if t == nil {
		return nil, tree.ErrNilTree
	}
	n := &node{Decision: t.Decision()}
	if t.Kind() == tree.Leaf {
		return n, nil
	}
	n.Attribute = t.Attribute()
	n.Children = make(map[string]*node)
	for _, v := range t.Values() {
		c, err := encodeNode(t.Child(v))
		if err != nil {
			return nil, err
		}
		n.Children[v] = c
	}
	return n, nil
}

func decodeNode(n *node) (*tree.Tree, error) {
	if n == nil {
		return nil, fmt.Errorf("decoding node: null node")
	}
	if len(n.Children) == 0 {
		if n.Attribute != "" {
			return nil, fmt.Errorf("decoding node: split on %s without subtrees", n.Attribute)
		}
		return tree.NewLeaf(n.Decision), nil
	}
	children := make(map[string]*tree.Tree, len(n.Children))
	for v, c := range n.Children {
		t, err := decodeNode(c)
		if err != nil {
			return nil, fmt.Errorf("value %s of %s: %w", v, n.Attribute, err)
		}
		children[v] = t
	}
	return tree.NewSplit(n.Attribute, children, n.Decision), nil
}

/*
MarshalTree takes a tree and returns its JSON encoding or an error if the
tree is nil.
*/
func MarshalTree(t *tree.Tree) ([]byte, error) {
	n, err := encodeNode(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

/*
UnmarshalTree takes a slice of bytes with a tree encoded by MarshalTree and
returns the tree or an error.
*/
func UnmarshalTree(b []byte) (*tree.Tree, error) {
	n := &node{}
	if err := json.Unmarshal(b, n); err != nil {
		return nil, err
	}
	return decodeNode(n)
}
