// Package gitignore keeps the generated project's environment file out of
// version control.
package gitignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

const (
	// FileName is the ignore file at the project root.
	FileName = ".gitignore"

	// EnvEntry excludes the generated environment file.
	EnvEntry = ".env"
	// ExampleEntry re-includes the example environment file.
	ExampleEntry = "!.env.example"
)

// Entries returns the lines to append, in order. The .env exclusion is
// always last.
func Entries(keepLocalEnvsInVCS bool) []string {
	if keepLocalEnvsInVCS {
		return []string{ExampleEntry, EnvEntry}
	}
	return []string{EnvEntry}
}

// Append adds lines to the .gitignore under root. Existing content is never
// rewritten; a missing trailing newline is completed first so the new
// entries start on their own line.
func Append(fsys types.FS, root string, lines ...string) error {
	path := filepath.Join(root, FileName)

	existing, err := fsys.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}

	var b strings.Builder
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if err := fsys.AppendFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot append to %s", path)
	}

	logger := logging.GetLogger("gitignore")
	logger.Debug().Strs("lines", lines).Str("path", path).Msg("Appended to .gitignore")
	return nil
}

// Check reports whether the last non-blank line of the .gitignore under
// root excludes the environment file.
func Check(fsys types.FS, root string) (bool, error) {
	path := filepath.Join(root, FileName)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1]) == EnvEntry, nil
}
