/*
Package redisstore keeps forests on a redis server, encoded as JSON.
*/
package redisstore

import (
	"context"
	"fmt"

	redis "gopkg.in/redis.v5"

	"github.com/pbanos/grove/tree"
	treejson "github.com/pbanos/grove/tree/json"
)

// Error represents an error on the store
type Error string

// ErrNotFound is returned when loading a forest that is not on the store.
const ErrNotFound = Error("forest not found")

func (e Error) Error() string {
	return string(e)
}

/*
Store saves and loads forests by name on a redis server. Each forest is kept
as a string under the key prefix:forest:name.
*/
type Store struct {
	rc     *redis.Client
	prefix string
}

// New builds a Store backed by the given redis client.
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc, prefix}
}

/*
Save takes a context, a name and the trees of a forest and stores them under
the name, replacing any forest stored with it before.
*/
func (s *Store) Save(ctx context.Context, name string, trees []*tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := treejson.MarshalForest(trees)
	if err != nil {
		return fmt.Errorf("saving forest %s: encoding forest: %v", name, err)
	}
	if err = s.rc.Set(s.keyFor(name), data, 0).Err(); err != nil {
		return fmt.Errorf("saving forest %s in redis: %v", name, err)
	}
	return nil
}

/*
Load takes a context and a name and returns the trees of the forest stored
under the name. ErrNotFound is returned if there is none.
*/
func (s *Store) Load(ctx context.Context, name string) ([]*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.rc.Get(s.keyFor(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading forest %s from redis: %v", name, err)
	}
	trees, err := treejson.UnmarshalForest(data)
	if err != nil {
		return nil, fmt.Errorf("loading forest %s: decoding forest: %v", name, err)
	}
	return trees, nil
}

func (s *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:forest:%s", s.prefix, name)
}
