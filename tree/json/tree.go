/*
Package json encodes trees and forests as JSON. The same encoding is used to
store forests on files and to ship shards of a forest between processes.
*/
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/grove/tree"
)

/*
WriteForest takes an io.Writer and a slice of trees and serializes them onto
the io.Writer as a JSON object with a single field "trees": an array with
the trees in order, each one encoded as MarshalTree does.
An error is returned if a tree is nil or the JSON cannot be written.
*/
func WriteForest(w io.Writer, trees []*tree.Tree) error {
	if _, err := w.Write([]byte(`{"trees":[`)); err != nil {
		return err
	}
	for i, t := range trees {
		if i != 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		jt, err := MarshalTree(t)
		if err != nil {
			return fmt.Errorf("encoding tree %d: %w", i, err)
		}
		if _, err = w.Write(jt); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte(`]}`))
	return err
}

/*
ReadForest takes an io.Reader and returns the trees of the forest encoded on
it by WriteForest, in order, or an error if they cannot be read or decoded.
*/
func ReadForest(r io.Reader) ([]*tree.Tree, error) {
	jf := &struct {
		Trees []*node `json:"trees"`
	}{}
	if err := json.NewDecoder(r).Decode(jf); err != nil {
		return nil, err
	}
	if jf.Trees == nil {
		return nil, fmt.Errorf("no trees field found")
	}
	trees := make([]*tree.Tree, 0, len(jf.Trees))
	for i, n := range jf.Trees {
		t, err := decodeNode(n)
		if err != nil {
			return nil, fmt.Errorf("decoding tree %d: %w", i, err)
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// MarshalForest returns the encoding WriteForest writes for the given trees.
func MarshalForest(trees []*tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteForest(&buf, trees); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalForest decodes trees encoded by MarshalForest.
func UnmarshalForest(b []byte) ([]*tree.Tree, error) {
	return ReadForest(bytes.NewReader(b))
}
