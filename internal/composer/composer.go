package composer

import (
	"context"
	"fmt"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/dag"
	"github.com/vk/themeforge/internal/registry"
)

// Composer resolves operations against a registry and runs them.
type Composer struct {
	registry *registry.Registry
	env      *registry.Env
	workers  int
}

// New creates a composer.
func New(reg *registry.Registry, env *registry.Env, workers int) *Composer {
	return &Composer{registry: reg, env: env, workers: workers}
}

// builder accumulates nodes for one Build call.
type builder struct {
	graph    *dag.Graph
	composer *Composer
	seq      int
}

func (b *builder) addTask(name string) (string, error) {
	task, ok := b.composer.registry.Task(name)
	if !ok {
		return "", fmt.Errorf("unknown task '%s'", name)
	}
	b.seq++
	id := fmt.Sprintf("%02d:%s", b.seq, name)
	env := b.composer.env
	fn := func(ctx context.Context) error {
		logger := ctxlog.FromContext(ctx)
		logger.Info("▶️ Starting task")
		if err := task.Fn(ctx, env); err != nil {
			return err
		}
		logger.Info("✅ Finished task")
		return nil
	}
	if err := b.graph.AddNode(id, name, fn); err != nil {
		return "", err
	}
	return id, nil
}

// Build compiles an operation into a graph.
func (c *Composer) Build(op Op) (*dag.Graph, error) {
	if err := c.registry.Validate(TaskNames(op)...); err != nil {
		return nil, err
	}
	b := &builder{graph: dag.New(), composer: c}
	if _, err := op.attach(b, nil); err != nil {
		return nil, err
	}
	return b.graph, nil
}

// Run builds and executes an operation.
func (c *Composer) Run(ctx context.Context, op Op) ([]dag.Result, error) {
	logger := ctxlog.FromContext(ctx)
	g, err := c.Build(op)
	if err != nil {
		return nil, fmt.Errorf("failed to build task graph: %w", err)
	}
	logger.Debug("Task graph built.", "op", op.String(), "node_count", g.Len())
	return dag.NewExecutor(g, c.workers).Run(ctx)
}
