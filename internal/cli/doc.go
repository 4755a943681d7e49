// Package cli turns command-line arguments and THEMEFORGE_* environment
// variables into an app configuration and the operation to run.
package cli
