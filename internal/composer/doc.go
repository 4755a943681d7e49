// Package composer turns named operations built from Series and Parallel
// groupings of registered tasks into a dag.Graph and runs it.
//
// Series members run strictly one after another: a member starts only
// after every task of the previous member finished. Parallel members have
// no ordering between them.
package composer
