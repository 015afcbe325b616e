package comm

import (
	"context"
	"fmt"
	"strconv"
)

/*
Gather takes a Comm, the rank of the root process and a message, and sends
the message to the root. On the root it returns the messages of every rank
indexed by rank, receiving them in ascending rank order; other ranks get a
nil slice.
*/
func Gather(ctx context.Context, c Comm, root int, msg []byte) ([][]byte, error) {
	if c.Rank() != root {
		if err := c.Send(ctx, root, msg); err != nil {
			return nil, fmt.Errorf("sending to root %d: %w", root, err)
		}
		return nil, nil
	}
	msgs := make([][]byte, c.Size())
	for rank := range msgs {
		if rank == root {
			msgs[rank] = msg
			continue
		}
		m, err := c.Receive(ctx, rank)
		if err != nil {
			return nil, fmt.Errorf("gathering from rank %d: %w", rank, err)
		}
		msgs[rank] = m
	}
	return msgs, nil
}

/*
Broadcast takes a Comm, the rank of the root process and a message, and
returns the message of the root on every rank. Only the message given on the
root is used.
*/
func Broadcast(ctx context.Context, c Comm, root int, msg []byte) ([]byte, error) {
	if c.Rank() != root {
		m, err := c.Receive(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("receiving broadcast from root %d: %w", root, err)
		}
		return m, nil
	}
	for rank := 0; rank < c.Size(); rank++ {
		if rank == root {
			continue
		}
		if err := c.Send(ctx, rank, msg); err != nil {
			return nil, fmt.Errorf("broadcasting to rank %d: %w", rank, err)
		}
	}
	return msg, nil
}

/*
ReduceSum takes a Comm, the rank of the root process and a value, and returns
the sum of the values of every rank on the root. Other ranks get their own
value back.
*/
func ReduceSum(ctx context.Context, c Comm, root int, v int64) (int64, error) {
	msgs, err := Gather(ctx, c, root, strconv.AppendInt(nil, v, 10))
	if err != nil {
		return 0, err
	}
	if c.Rank() != root {
		return v, nil
	}
	var sum int64
	for rank, m := range msgs {
		n, err := strconv.ParseInt(string(m), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("reducing value from rank %d: %w", rank, err)
		}
		sum += n
	}
	return sum, nil
}

/*
AllReduceSum takes a Comm and a value and returns the sum of the values of
every rank on all of them. The sum is computed on rank 0 and broadcast from
there.
*/
func AllReduceSum(ctx context.Context, c Comm, v int64) (int64, error) {
	sum, err := ReduceSum(ctx, c, 0, v)
	if err != nil {
		return 0, err
	}
	msg, err := Broadcast(ctx, c, 0, strconv.AppendInt(nil, sum, 10))
	if err != nil {
		return 0, err
	}
	sum, err = strconv.ParseInt(string(msg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing reduced sum: %w", err)
	}
	return sum, nil
}
