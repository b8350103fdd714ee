package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// MemoryRoot is the project root of memory environments.
const MemoryRoot = "/project"

// TestEnvironment is a project directory on a test filesystem.
type TestEnvironment struct {
	Root string
	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvMemoryOnly:
		env.Root = MemoryRoot
		env.FS = filesystem.NewMemory()
		if err := env.FS.MkdirAll(env.Root, 0755); err != nil {
			t.Fatalf("Failed to create root %s: %v", env.Root, err)
		}
	case EnvIsolated:
		// t.TempDir is removed by the testing package.
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	default:
		t.Fatalf("Unknown environment type: %d", envType)
	}
	return env
}

// FileTree represents a directory structure for testing. Values are file
// contents (string) or nested trees (FileTree). Keys may contain slashes.
type FileTree map[string]interface{}

// WithFileTree creates tree under the environment root.
func (env *TestEnvironment) WithFileTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	CreateFileTree(env.t, env.FS, env.Root, tree)
	return env
}

// Path joins rel onto the root.
func (env *TestEnvironment) Path(rel string) string {
	return filepath.Join(env.Root, filepath.FromSlash(rel))
}

// Exists reports whether rel is present.
func (env *TestEnvironment) Exists(rel string) bool {
	_, err := env.FS.Stat(env.Path(rel))
	return err == nil
}

// Read returns the content of rel, failing the test if it cannot.
func (env *TestEnvironment) Read(rel string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(env.Path(rel))
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Write replaces the content of rel.
func (env *TestEnvironment) Write(rel, content string) {
	env.t.Helper()
	CreateFileTree(env.t, env.FS, env.Root, FileTree{rel: content})
}

// Remove deletes rel.
func (env *TestEnvironment) Remove(rel string) {
	env.t.Helper()
	if err := env.FS.RemoveAll(env.Path(rel)); err != nil && !os.IsNotExist(err) {
		env.t.Fatalf("Failed to remove %s: %v", rel, err)
	}
}

// CreateFileTree recursively creates a file tree
func CreateFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, filepath.FromSlash(name))

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			CreateFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
