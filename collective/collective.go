// Package collective provides the blocking SPMD operations used by the
// distributed interpolation: broadcast from a root and gather at a root.
// Every rank must issue the same collectives in the same order.
package collective

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrCollectiveMismatch = errors.New("ranks issued mismatched collectives")
	ErrAborted            = errors.New("collective group aborted")
)

type Channel interface {
	Rank() int
	Size() int
	// Broadcast returns root's buf on every rank. buf is ignored on non-root
	// ranks.
	Broadcast(root int, buf []float64) ([]float64, error)
	// Gather returns, on root only, the send buffer of every rank indexed by
	// rank. Buffers may differ in length. Non-root ranks get nil.
	Gather(root int, send []float64) ([][]float64, error)
}

// Serial is the single rank Channel
type Serial struct{}

func (Serial) Rank() int { return 0 }
func (Serial) Size() int { return 1 }

func (Serial) Broadcast(root int, buf []float64) ([]float64, error) {
	if root != 0 {
		return nil, fmt.Errorf("broadcast root %d with one rank", root)
	}
	return append([]float64(nil), buf...), nil
}

func (Serial) Gather(root int, send []float64) ([][]float64, error) {
	if root != 0 {
		return nil, fmt.Errorf("gather root %d with one rank", root)
	}
	return [][]float64{append([]float64(nil), send...)}, nil
}

type kind uint8

const (
	broadcast kind = iota
	gather
)

func (k kind) String() string {
	if k == broadcast {
		return "broadcast"
	}
	return "gather"
}

type message struct {
	kind kind
	seq  uint64
	data []float64
}

// mailDepth is how many collectives a sender may run ahead of a receiver
const mailDepth = 8

// Group connects NP in-process ranks with one buffered mailbox per ordered
// pair of ranks.
type Group struct {
	NP    int
	boxes [][]chan message // [to][from]
	done  chan struct{}
	once  sync.Once
}

func NewGroup(NP int) (g *Group) {
	g = &Group{
		NP:    NP,
		boxes: make([][]chan message, NP),
		done:  make(chan struct{}),
	}
	for to := 0; to < NP; to++ {
		g.boxes[to] = make([]chan message, NP)
		for from := 0; from < NP; from++ {
			if from != to {
				g.boxes[to][from] = make(chan message, mailDepth)
			}
		}
	}
	return
}

// Abort releases every rank blocked in a collective with ErrAborted
func (g *Group) Abort() {
	g.once.Do(func() { close(g.done) })
}

// Rank returns the Channel of one rank. A rank's Channel must only be used
// from one goroutine.
func (g *Group) Rank(rank int) *Endpoint {
	if rank < 0 || rank >= g.NP {
		panic(fmt.Sprintf("rank %d out of range [0,%d)", rank, g.NP))
	}
	return &Endpoint{group: g, rank: rank}
}

type Endpoint struct {
	group *Group
	rank  int
	seq   uint64
}

func (e *Endpoint) Rank() int { return e.rank }
func (e *Endpoint) Size() int { return e.group.NP }

func (e *Endpoint) post(to int, k kind, data []float64) error {
	msg := message{kind: k, seq: e.seq, data: append([]float64(nil), data...)}
	select {
	case e.group.boxes[to][e.rank] <- msg:
		return nil
	case <-e.group.done:
		return ErrAborted
	}
}

func (e *Endpoint) receive(from int, k kind) ([]float64, error) {
	select {
	case msg := <-e.group.boxes[e.rank][from]:
		if msg.kind != k || msg.seq != e.seq {
			return nil, fmt.Errorf("rank %d expected %s #%d from rank %d, got %s #%d: %w",
				e.rank, k, e.seq, from, msg.kind, msg.seq, ErrCollectiveMismatch)
		}
		return msg.data, nil
	case <-e.group.done:
		return nil, ErrAborted
	}
}

func (e *Endpoint) checkRoot(root int) error {
	if root < 0 || root >= e.group.NP {
		return fmt.Errorf("root %d out of range [0,%d)", root, e.group.NP)
	}
	return nil
}

func (e *Endpoint) Broadcast(root int, buf []float64) (out []float64, err error) {
	if err = e.checkRoot(root); err != nil {
		return
	}
	e.seq++
	if e.rank != root {
		return e.receive(root, broadcast)
	}
	for to := 0; to < e.group.NP; to++ {
		if to == root {
			continue
		}
		if err = e.post(to, broadcast, buf); err != nil {
			return
		}
	}
	return append([]float64(nil), buf...), nil
}

func (e *Endpoint) Gather(root int, send []float64) (all [][]float64, err error) {
	if err = e.checkRoot(root); err != nil {
		return
	}
	e.seq++
	if e.rank != root {
		return nil, e.post(root, gather, send)
	}
	all = make([][]float64, e.group.NP)
	for from := 0; from < e.group.NP; from++ {
		if from == root {
			all[from] = append([]float64(nil), send...)
			continue
		}
		if all[from], err = e.receive(from, gather); err != nil {
			return nil, err
		}
	}
	return
}

// Run executes fn once per rank of a new NP rank group, each on its own
// goroutine, and returns the joined errors. A failing rank aborts the group
// so peers blocked in collectives return.
func Run(NP int, fn func(ch Channel) error) error {
	if NP < 1 {
		return fmt.Errorf("cannot run %d ranks", NP)
	}
	if NP == 1 {
		return fn(Serial{})
	}
	var (
		g    = NewGroup(NP)
		wg   = sync.WaitGroup{}
		errs = make([]error, NP)
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			if errs[np] = fn(g.Rank(np)); errs[np] != nil {
				errs[np] = fmt.Errorf("rank %d: %w", np, errs[np])
				g.Abort()
			}
		}(np)
	}
	wg.Wait()
	return errors.Join(errs...)
}
