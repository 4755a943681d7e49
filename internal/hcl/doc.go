// Package hcl provides the HCL implementation of the config.Loader
// interface. A project file holds a single `project "<name>" { ... }` block
// whose expressions are evaluated with the mode flags, an env() function
// and a small set of cty string functions in scope.
package hcl
