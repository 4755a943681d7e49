package composer

import (
	"fmt"
	"strings"
)

// Op is a node of an operation tree.
type Op interface {
	// attach adds the op to the builder so that it starts after every node
	// in `after`, returning the IDs that finish the op.
	attach(b *builder, after []string) ([]string, error)
	// walk visits the task names in declaration order.
	walk(fn func(name string))
	fmt.Stringer
}

type taskOp struct{ name string }

type seriesOp struct{ ops []Op }

type parallelOp struct{ ops []Op }

// Task refers to a registered task by name.
func Task(name string) Op { return taskOp{name: name} }

// Series runs ops one after another.
func Series(ops ...Op) Op { return seriesOp{ops: ops} }

// Parallel runs ops without ordering between them.
func Parallel(ops ...Op) Op { return parallelOp{ops: ops} }

func (t taskOp) attach(b *builder, after []string) ([]string, error) {
	id, err := b.addTask(t.name)
	if err != nil {
		return nil, err
	}
	for _, dep := range after {
		if err := b.graph.AddEdge(dep, id); err != nil {
			return nil, err
		}
	}
	return []string{id}, nil
}

func (t taskOp) walk(fn func(string)) { fn(t.name) }

func (t taskOp) String() string { return t.name }

func (s seriesOp) attach(b *builder, after []string) ([]string, error) {
	current := after
	for _, op := range s.ops {
		next, err := op.attach(b, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func (s seriesOp) walk(fn func(string)) {
	for _, op := range s.ops {
		op.walk(fn)
	}
}

func (s seriesOp) String() string { return "series(" + join(s.ops) + ")" }

func (p parallelOp) attach(b *builder, after []string) ([]string, error) {
	if len(p.ops) == 0 {
		return after, nil
	}
	var ends []string
	for _, op := range p.ops {
		out, err := op.attach(b, after)
		if err != nil {
			return nil, err
		}
		ends = append(ends, out...)
	}
	return ends, nil
}

func (p parallelOp) walk(fn func(string)) {
	for _, op := range p.ops {
		op.walk(fn)
	}
}

func (p parallelOp) String() string { return "parallel(" + join(p.ops) + ")" }

func join(ops []Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

// TaskNames lists the task names an op refers to, duplicates included.
func TaskNames(op Op) []string {
	var names []string
	op.walk(func(name string) { names = append(names, name) })
	return names
}
