// Package config defines the format-agnostic project model for the
// application, along with the Loader interface implemented by the HCL,
// YAML, TOML and package.json readers.
//
// The `config.Project` and `config.Mode` values are the single source of
// truth for the path resolver, the header generator and every transform.
// Both are built once per process and never mutated afterwards.
package config
