package comm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// runWorld runs f on every rank of a local world of the given size.
func runWorld(t *testing.T, size int, f func(ctx context.Context, c Comm) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range NewLocalWorld(size) {
		c := c
		g.Go(func() error {
			defer c.Close()
			return f(gctx, c)
		})
	}
	require.NoError(t, g.Wait())
}

func TestSendReceiveOrder(t *testing.T) {
	comms := NewLocalWorld(2)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, comms[0].Send(ctx, 1, []byte(fmt.Sprint(i))))
	}
	for i := 0; i < 5; i++ {
		msg, err := comms[1].Receive(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i), string(msg))
	}
}

func TestSendCopiesMessage(t *testing.T) {
	comms := NewLocalWorld(2)
	ctx := context.Background()
	msg := []byte("abc")
	require.NoError(t, comms[1].Send(ctx, 0, msg))
	msg[0] = 'x'
	got, err := comms[0].Receive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestReceiveBlocksUntilSent(t *testing.T) {
	comms := NewLocalWorld(2)
	ctx := context.Background()
	got := make(chan string)
	go func() {
		msg, _ := comms[1].Receive(ctx, 0)
		got <- string(msg)
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, comms[0].Send(ctx, 1, []byte("late")))
	assert.Equal(t, "late", <-got)
}

func TestReceiveErrors(t *testing.T) {
	comms := NewLocalWorld(2)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := comms[1].Receive(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = comms[1].Receive(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, comms[1].Send(context.Background(), 2, nil))
	assert.Error(t, comms[1].Send(context.Background(), -1, nil))

	done := make(chan error)
	go func() {
		_, err := comms[0].Receive(context.Background(), 1)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, comms[0].Close())
	assert.Equal(t, ErrClosed, <-done)
	assert.Equal(t, ErrClosed, comms[0].Send(context.Background(), 1, nil))
	assert.NoError(t, comms[0].Close())
}

func TestGatherAndBroadcast(t *testing.T) {
	runWorld(t, 4, func(ctx context.Context, c Comm) error {
		msgs, err := Gather(ctx, c, 0, []byte(fmt.Sprintf("rank %d", c.Rank())))
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			for rank, m := range msgs {
				if string(m) != fmt.Sprintf("rank %d", rank) {
					return fmt.Errorf("got %q from rank %d", m, rank)
				}
			}
		} else if msgs != nil {
			return fmt.Errorf("rank %d got gathered messages", c.Rank())
		}

		msg, err := Broadcast(ctx, c, 0, []byte(fmt.Sprintf("from %d", c.Rank())))
		if err != nil {
			return err
		}
		if string(msg) != "from 0" {
			return fmt.Errorf("rank %d got broadcast %q", c.Rank(), msg)
		}
		return nil
	})
}

func TestReductions(t *testing.T) {
	runWorld(t, 5, func(ctx context.Context, c Comm) error {
		v := int64(c.Rank() + 1)
		sum, err := ReduceSum(ctx, c, 2, v)
		if err != nil {
			return err
		}
		if c.Rank() == 2 && sum != 15 || c.Rank() != 2 && sum != v {
			return fmt.Errorf("rank %d reduced %d", c.Rank(), sum)
		}
		all, err := AllReduceSum(ctx, c, v*10)
		if err != nil {
			return err
		}
		if all != 150 {
			return fmt.Errorf("rank %d all-reduced %d", c.Rank(), all)
		}
		return nil
	})
}

func TestSingleRankWorld(t *testing.T) {
	runWorld(t, 1, func(ctx context.Context, c Comm) error {
		msgs, err := Gather(ctx, c, 0, []byte("only"))
		if err != nil || len(msgs) != 1 {
			return fmt.Errorf("gather: %v %v", msgs, err)
		}
		sum, err := AllReduceSum(ctx, c, 7)
		if err != nil || sum != 7 {
			return fmt.Errorf("all-reduce: %d %v", sum, err)
		}
		return nil
	})
}
