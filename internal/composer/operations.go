package composer

import (
	"fmt"
	"sort"

	"github.com/vk/themeforge/internal/registry"
)

// Names of the external operations.
const (
	OpWP          = "wp"
	OpCreateTheme = "create-theme"
	OpDev         = "dev"
	OpBuild       = "build"
)

// Assets groups every asset transform; none depends on another.
func Assets() Op {
	return Parallel(
		Task(registry.TaskScripts),
		Task(registry.TaskVendorScripts),
		Task(registry.TaskStyles),
		Task(registry.TaskVendorStyles),
		Task(registry.TaskFonts),
		Task(registry.TaskImages),
		Task(registry.TaskHTML),
	)
}

// Operations returns the named external operations.
func Operations() map[string]Op {
	return map[string]Op{
		OpWP: Series(
			Parallel(Task(registry.TaskDownloadWP), Task(registry.TaskCreateWPDir)),
			Task(registry.TaskUnzipWP),
			Task(registry.TaskDeleteWPUnused),
		),
		OpCreateTheme: Series(
			Task(registry.TaskDownloadSrc),
			Task(registry.TaskSrcUnzip),
			Task(registry.TaskSrcMove),
			Task(registry.TaskCreateThemeInfo),
		),
		OpDev: Series(
			Task(registry.TaskCleanAssets),
			Assets(),
			Task(registry.TaskHTML),
			Task(registry.TaskServe),
			Task(registry.TaskWatch),
		),
		OpBuild: Series(
			Task(registry.TaskCreateThemeInfo),
			Task(registry.TaskCleanAssets),
			Assets(),
		),
	}
}

// Lookup returns a named operation.
func Lookup(name string) (Op, error) {
	ops := Operations()
	op, ok := ops[name]
	if !ok {
		names := make([]string, 0, len(ops))
		for n := range ops {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown operation '%s' (available: %v)", name, names)
	}
	return op, nil
}
