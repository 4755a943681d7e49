// Package registry provides the central "glue" for the task system.
//
// The Registry maps the task names used by composed operations (e.g.
// "styles", "download_wp") to the Go handlers that implement them. Modules
// contribute tasks through the Module interface during application
// startup; the composer later resolves names against the registry, and
// Validate makes sure every name an operation refers to is backed by code.
package registry
