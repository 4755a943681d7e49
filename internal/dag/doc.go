// Package dag is the execution layer behind composed operations. A Graph
// holds task nodes and their must-finish-before edges; an Executor runs the
// graph on a worker pool, starting each node as soon as all of its
// dependencies are done.
//
// Failure policy: a failing node cancels the run and every node downstream
// of it is skipped; the first real failure is returned. A node that returns
// ErrSkip is marked skipped together with its dependents, and the run still
// succeeds.
package dag
