// Package archive downloads remote archives and unpacks them.
//
// Both .tar.gz and .zip archives are supported. Extraction can strip
// leading path components, the way release archives usually wrap their
// content in a single top-level directory.
package archive
