/*
Package comm defines the message passing substrate the processes of a
distributed job use to talk to each other, along with the collective
operations built on it.

Processes are identified by their rank, from 0 to the size of the job minus
one. Messages between a sender and a receiver are delivered in the order
they were sent.

It also provides an in-memory implementation of the Comm interface to run
every rank of a job as goroutines of the same process.
*/
package comm

import (
	"context"
	"fmt"
)

/*
Comm represents the view one rank has of a job. All its blocking methods have
a context.Context as first parameter that implementations use to allow
timeouts and cancellations.
*/
type Comm interface {
	// Rank returns the rank of this process in the job.
	Rank() int
	// Size returns the number of processes in the job.
	Size() int
	// Send takes the rank of a process and a message and delivers the
	// message to it or returns an error. It does not wait for the receiver.
	Send(ctx context.Context, to int, msg []byte) error
	// Receive takes the rank of a process and returns the next message it
	// sent to this one, blocking until there is one, or an error.
	Receive(ctx context.Context, from int) ([]byte, error)
	// Close frees the resources held by the Comm. Calls to Send and Receive
	// after Close return ErrClosed.
	Close() error
}

// Error represents an error on the communication among ranks
type Error string

// ErrClosed is returned when using a closed Comm.
const ErrClosed = Error("communication closed")

func (e Error) Error() string {
	return string(e)
}

/*
CheckPeer takes a Comm and a rank and returns an error if the rank is not
another rank of the job.
*/
func CheckPeer(c Comm, rank int) error {
	if rank < 0 || rank >= c.Size() {
		return fmt.Errorf("rank %d out of range [0, %d)", rank, c.Size())
	}
	if rank == c.Rank() {
		return fmt.Errorf("rank %d cannot message itself", rank)
	}
	return nil
}
