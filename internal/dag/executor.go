package dag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vk/themeforge/internal/ctxlog"
)

// Executor runs a Graph once.
type Executor struct {
	graph      *Graph
	numWorkers int

	wg        sync.WaitGroup
	failOnce  sync.Once
	rootCause *node
}

// NewExecutor creates an executor with the given worker count. Fewer than
// one worker is treated as one.
func NewExecutor(g *Graph, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{graph: g, numWorkers: workers}
}

// Run executes the graph and returns one Result per node in insertion
// order. The error is the first real task failure, if any. It respects the
// cancellation signal from the provided context.
func (e *Executor) Run(ctx context.Context) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)

	if err := e.graph.DetectCycles(); err != nil {
		return nil, err
	}

	e.graph.mutex.RLock()
	nodes := append([]*node(nil), e.graph.order...)
	e.graph.mutex.RUnlock()

	if len(nodes) == 0 {
		return nil, nil
	}

	readyChan := make(chan *node, len(nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, n := range nodes {
		n.state.Store(int32(Pending))
		n.depCount.Store(int32(len(n.deps)))
		n.err = nil
		n.elapsed = 0
	}

	rootNodeCount := 0
	for _, n := range nodes {
		if n.depCount.Load() == 0 {
			logger.Debug("Found root node.", "nodeID", n.id)
			readyChan <- n
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(nodes))
	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	e.wg.Wait()
	close(readyChan)

	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, Result{
			ID:       n.id,
			Label:    n.label,
			State:    State(n.state.Load()),
			Err:      n.err,
			Duration: n.elapsed,
		})
	}

	if e.rootCause != nil {
		return results, fmt.Errorf("task %s failed: %w", e.rootCause.label, e.rootCause.err)
	}
	return results, nil
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for n := range readyChan {
		workerLogger := logger.With("workerID", workerID, "task", n.label)

		if ctx.Err() != nil {
			if e.claim(n, Skipped) {
				workerLogger.Debug("Context canceled, skipping task.")
				n.err = ctx.Err()
				e.wg.Done()
				e.skipDependents(ctx, n)
			}
			continue
		}
		// A node reached through one finished dependency may already have
		// been skipped through a failed one.
		if !e.claim(n, Running) {
			continue
		}

		n.started = time.Now()
		err := n.fn(ctxlog.WithLogger(ctx, workerLogger))
		n.elapsed = time.Since(n.started)

		switch {
		case err == nil:
			n.state.Store(int32(Done))
			for _, dependent := range n.dependents {
				if dependent.depCount.Add(-1) == 0 {
					readyChan <- dependent
				}
			}
		case errors.Is(err, ErrSkip):
			workerLogger.Warn("⏭️ Task skipped", "reason", err)
			n.state.Store(int32(Skipped))
			n.err = err
			e.skipDependents(ctx, n)
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			n.state.Store(int32(Skipped))
			n.err = err
			e.skipDependents(ctx, n)
		default:
			workerLogger.Error("Task failed.", "error", err)
			n.state.Store(int32(Failed))
			n.err = err
			e.failOnce.Do(func() { e.rootCause = n })
			cancel()
			e.skipDependents(ctx, n)
		}
		e.wg.Done()
	}
}

// claim moves a pending node into the given state. Only one caller wins.
func (e *Executor) claim(n *node, to State) bool {
	return n.state.CompareAndSwap(int32(Pending), int32(to))
}

// skipDependents recursively marks all downstream nodes as skipped.
func (e *Executor) skipDependents(ctx context.Context, n *node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range n.dependents {
		if e.claim(dependent, Skipped) {
			logger.Debug("Skipping dependent task.", "task", dependent.label, "dependency", n.label)
			dependent.err = fmt.Errorf("%w: upstream task '%s' did not complete", ErrSkip, n.label)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		}
	}
}
