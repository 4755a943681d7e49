package dag

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSkip is returned (possibly wrapped) by a task that decided not to run.
var ErrSkip = errors.New("skipped")

// TaskFunc is the unit of work attached to a node.
type TaskFunc func(ctx context.Context) error

// State is the lifecycle state of a node during a run.
type State int32

const (
	Pending State = iota
	Running
	Done
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Graph is a collection of task nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// order keeps insertion order for stable results and logs.
	order []*node
}

// node is un-exported to enforce interaction through the public API.
type node struct {
	id    string
	label string
	fn    TaskFunc

	deps       map[string]*node
	dependents map[string]*node

	// Per-run bookkeeping, reset by the executor.
	state    atomic.Int32
	depCount atomic.Int32
	err      error
	started  time.Time
	elapsed  time.Duration
}

// Result describes how one node ended.
type Result struct {
	ID       string
	Label    string
	State    State
	Err      error
	Duration time.Duration
}
