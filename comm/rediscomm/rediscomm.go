/*
Package rediscomm provides an implementation of comm.Comm that passes
messages among the processes of a job through a redis server.
*/
package rediscomm

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis "gopkg.in/redis.v5"

	"github.com/pbanos/grove/comm"
)

const (
	// PollTimeout is the longest a blocking pop waits on redis before
	// checking whether the context of a Receive is done.
	PollTimeout = time.Second
	// MessageTTL is the time a mailbox is kept on redis after its last
	// message was sent.
	MessageTTL = 24 * time.Hour
)

type redisComm struct {
	id     string
	rc     *redis.Client
	rank   int
	size   int
	closed chan struct{}
	once   sync.Once
}

/*
New takes a redis client, the id of a job, the rank of this process and the
size of the job and returns a comm.Comm for the rank. It uses the given id to
prefix the keys used on the redis server, which are the following:
  - id:from:to is the key to a list with the messages sent from rank from to
    rank to that have not been received yet. Messages are pushed on its tail
    and popped from its head, and the list expires MessageTTL after the last
    push.

Every process of the job must use the same id and size. The returned Comm is
safe for concurrent use by multiple goroutines.
*/
func New(rc *redis.Client, id string, rank, size int) (comm.Comm, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid job size %d", size)
	}
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("rank %d out of range [0, %d)", rank, size)
	}
	if id == "" {
		return nil, fmt.Errorf("empty job id")
	}
	return &redisComm{id: id, rc: rc, rank: rank, size: size, closed: make(chan struct{})}, nil
}

func (r *redisComm) Rank() int {
	return r.rank
}

func (r *redisComm) Size() int {
	return r.size
}

func (r *redisComm) Send(ctx context.Context, to int, msg []byte) error {
	if err := r.check(ctx, to); err != nil {
		return err
	}
	key := r.mailboxKey(r.rank, to)
	if err := r.rc.RPush(key, msg).Err(); err != nil {
		return fmt.Errorf("pushing message to %q: %v", key, err)
	}
	if err := r.rc.Expire(key, MessageTTL).Err(); err != nil {
		return fmt.Errorf("setting expiration of %q: %v", key, err)
	}
	return nil
}

func (r *redisComm) Receive(ctx context.Context, from int) ([]byte, error) {
	if err := r.check(ctx, from); err != nil {
		return nil, err
	}
	key := r.mailboxKey(from, r.rank)
	for {
		v, err := r.rc.BLPop(PollTimeout, key).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("popping message from %q: %v", key, err)
		}
		if err == nil {
			if len(v) != 2 {
				return nil, fmt.Errorf("popping message from %q: redis returned %d values instead of 2", key, len(v))
			}
			return []byte(v[1]), nil
		}
		if err = r.check(ctx, from); err != nil {
			return nil, err
		}
	}
}

/*
Close stops the Comm. Messages sent to this rank that were never received are
deleted from the redis server. The redis client is not closed.
*/
func (r *redisComm) Close() error {
	var err error
	r.once.Do(func() {
		close(r.closed)
		keys := make([]string, 0, r.size)
		for from := 0; from < r.size; from++ {
			if from != r.rank {
				keys = append(keys, r.mailboxKey(from, r.rank))
			}
		}
		if len(keys) > 0 {
			err = r.rc.Del(keys...).Err()
		}
	})
	return err
}

func (r *redisComm) String() string {
	return fmt.Sprintf("{redis comm %s rank %d/%d}", r.id, r.rank, r.size)
}

func (r *redisComm) mailboxKey(from, to int) string {
	return fmt.Sprintf("%s:%d:%d", r.id, from, to)
}

func (r *redisComm) check(ctx context.Context, peer int) error {
	select {
	case <-r.closed:
		return comm.ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return comm.CheckPeer(r, peer)
}
