package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Module is the interface that all task modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredTask holds the compiled Go parts of a task.
type RegisteredTask struct {
	Description string
	Fn          Handler
}

// Registry holds all the registered tasks for a single application instance.
type Registry struct {
	tasks map[string]*RegisteredTask
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{tasks: make(map[string]*RegisteredTask)}
}

// RegisterTask registers a handler under a task name. Registering the same
// name twice is a programmer error and panics.
func (r *Registry) RegisterTask(name string, task *RegisteredTask) {
	if _, exists := r.tasks[name]; exists {
		panic(fmt.Sprintf("task with name '%s' already registered", name))
	}
	if task == nil || task.Fn == nil {
		panic(fmt.Sprintf("task '%s' registered without a handler", name))
	}
	slog.Debug("Registering task.", "name", name)
	r.tasks[name] = task
}

// Task looks up a registered task.
func (r *Registry) Task(name string) (*RegisteredTask, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns all registered task names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every given task name is registered.
func (r *Registry) Validate(names ...string) error {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range names {
		if _, ok := r.tasks[name]; !ok && !seen[name] {
			missing = append(missing, name)
			seen[name] = true
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("registry validation failed: unregistered tasks: %s", strings.Join(missing, ", "))
	}
	return nil
}
