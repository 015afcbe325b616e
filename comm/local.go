package comm

import (
	"context"
	"sync"
)

// mailbox holds the messages sent from a rank to another, oldest first.
type mailbox struct {
	lock     sync.Mutex
	messages [][]byte
	ready    chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (mb *mailbox) push(msg []byte) {
	mb.lock.Lock()
	mb.messages = append(mb.messages, msg)
	mb.lock.Unlock()
	mb.signal()
}

func (mb *mailbox) pull() ([]byte, bool) {
	mb.lock.Lock()
	defer mb.lock.Unlock()
	if len(mb.messages) == 0 {
		return nil, false
	}
	msg := mb.messages[0]
	mb.messages[0] = nil
	mb.messages = mb.messages[1:]
	if len(mb.messages) > 0 {
		mb.signal()
	}
	return msg, true
}

func (mb *mailbox) signal() {
	select {
	case mb.ready <- struct{}{}:
	default:
	}
}

type world struct {
	size      int
	mailboxes [][]*mailbox
}

type localComm struct {
	*world
	rank   int
	closed chan struct{}
	once   sync.Once
}

/*
NewLocalWorld takes a size and returns a Comm for each rank of a job of that
size whose messages are kept in the memory of the process. Closing a Comm
only affects its own rank.

The returned Comms are safe for concurrent use by multiple goroutines.
*/
func NewLocalWorld(size int) []Comm {
	w := &world{size: size, mailboxes: make([][]*mailbox, size)}
	for from := range w.mailboxes {
		w.mailboxes[from] = make([]*mailbox, size)
		for to := range w.mailboxes[from] {
			w.mailboxes[from][to] = newMailbox()
		}
	}
	comms := make([]Comm, size)
	for rank := range comms {
		comms[rank] = &localComm{world: w, rank: rank, closed: make(chan struct{})}
	}
	return comms
}

func (lc *localComm) Rank() int {
	return lc.rank
}

func (lc *localComm) Size() int {
	return lc.size
}

func (lc *localComm) Send(ctx context.Context, to int, msg []byte) error {
	if err := lc.check(ctx, to); err != nil {
		return err
	}
	lc.mailboxes[lc.rank][to].push(append([]byte(nil), msg...))
	return nil
}

func (lc *localComm) Receive(ctx context.Context, from int) ([]byte, error) {
	if err := lc.check(ctx, from); err != nil {
		return nil, err
	}
	mb := lc.mailboxes[from][lc.rank]
	for {
		if msg, ok := mb.pull(); ok {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-lc.closed:
			return nil, ErrClosed
		case <-mb.ready:
		}
	}
}

func (lc *localComm) Close() error {
	lc.once.Do(func() {
		close(lc.closed)
	})
	return nil
}

func (lc *localComm) check(ctx context.Context, peer int) error {
	select {
	case <-lc.closed:
		return ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return CheckPeer(lc, peer)
}
