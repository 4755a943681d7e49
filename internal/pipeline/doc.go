// Package pipeline holds the building blocks shared by the asset transforms:
// sourcing files from glob sets, newer-than filtering, lint policy, content
// revisioning, writing outputs, precompression and reload notification.
//
// Every helper takes the run environment so paths stay relative to the
// project root until the moment a file is touched.
package pipeline
