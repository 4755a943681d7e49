// Package loader picks the config.Loader matching a project file, loads
// the optional .env file next to it and returns a validated project with
// defaults applied.
//
// Supported formats: HCL (themeforge.hcl), YAML (themeforge.yaml/.yml),
// TOML (themeforge.toml) and an npm-style package.json.
package loader
