// Package app contains the core application logic. It wires the project
// metadata, task registry, composer and dev server together and runs named
// operations, decoupled from any specific entrypoint like the CLI.
package app
