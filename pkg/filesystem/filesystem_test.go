package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations(t *testing.T) map[string]struct {
	fs   types.FS
	root string
} {
	return map[string]struct {
		fs   types.FS
		root string
	}{
		"os":     {filesystem.NewOS(), t.TempDir()},
		"memory": {filesystem.NewMemory(), "/project"},
	}
}

func TestAppendFile(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, impl.fs.MkdirAll(impl.root, 0755))
			path := filepath.Join(impl.root, ".gitignore")

			require.NoError(t, impl.fs.AppendFile(path, []byte("a\n"), 0644))
			require.NoError(t, impl.fs.AppendFile(path, []byte("b\n"), 0644))

			data, err := impl.fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "a\nb\n", string(data))
		})
	}
}

func TestRemoveAllTree(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(impl.root, "compose", "local", "django", "celery")
			require.NoError(t, impl.fs.MkdirAll(filepath.Join(dir, "worker"), 0755))
			require.NoError(t, impl.fs.WriteFile(filepath.Join(dir, "worker", "start"), []byte("#!/bin/sh"), 0755))

			require.NoError(t, impl.fs.RemoveAll(dir))

			_, err := impl.fs.Stat(dir)
			assert.Error(t, err)

			entries, err := impl.fs.ReadDir(filepath.Join(impl.root, "compose", "local", "django"))
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestReadFileOnDirectory(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, impl.fs.MkdirAll(impl.root, 0755))
			_, err := impl.fs.ReadFile(impl.root)
			assert.Error(t, err)
		})
	}
}
