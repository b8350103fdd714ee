package types

import (
	"io/fs"
)

// FS is the filesystem surface the customizer touches. Production code uses
// the OS implementation; tests swap in an in-memory one.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// AppendFile appends data to name, creating it with perm if missing.
	AppendFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Removal
	Remove(name string) error
	RemoveAll(path string) error
}
