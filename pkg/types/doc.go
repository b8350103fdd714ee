// Package types holds the small set of types shared across postgen
// packages: the filesystem interface and removal operations.
package types
