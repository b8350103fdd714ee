// Package envfile produces the project's .env file and injects the
// generated secrets into it and into the Django settings modules.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/markers"
	"github.com/arthur-debert/postgen/pkg/secrets"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Project-relative files touched by this package.
const (
	ExampleFile = ".env.example"
	EnvFile     = ".env"
)

// SettingsFiles hold their own DJANGO_SECRET_KEY marker.
var SettingsFiles = []string{
	filepath.Join("config", "settings", "local.py"),
	filepath.Join("config", "settings", "test.py"),
}

// Filler sets markers in project files, generating values as needed.
type Filler struct {
	fs     types.FS
	root   string
	gen    *secrets.Generator
	warn   func(string)
	warned map[string]bool
	logger zerolog.Logger

	// Degraded lists markers that kept their own name because no secure
	// random source was available.
	Degraded []string
}

// NewFiller returns a Filler working under root. warn receives operator
// facing warnings and may be nil.
func NewFiller(fsys types.FS, root string, gen *secrets.Generator, warn func(string)) *Filler {
	if warn == nil {
		warn = func(string) {}
	}
	return &Filler{
		fs:     fsys,
		root:   root,
		gen:    gen,
		warn:   warn,
		warned: map[string]bool{},
		logger: logging.GetLogger("envfile"),
	}
}

// Set writes a fixed value for marker into rel.
func (f *Filler) Set(rel, marker, value string) error {
	return markers.Set(f.fs, filepath.Join(f.root, rel), marker, value)
}

// SetGenerated writes a freshly generated value for marker into rel. When
// format is not empty it wraps the generated value (e.g. "%s/"). Without a
// secure random source the marker is left in place and the operator is
// warned once per marker.
func (f *Filler) SetGenerated(rel, marker string, generate func() (string, error), format string) (string, error) {
	value, err := generate()
	switch {
	case errors.IsErrorCode(err, errors.ErrNoSecureRandom):
		f.degrade(marker)
		value = marker
	case err != nil:
		return "", err
	case format != "":
		value = fmt.Sprintf(format, value)
	}

	if err := f.Set(rel, marker, value); err != nil {
		return "", err
	}
	return value, nil
}

func (f *Filler) degrade(marker string) {
	if f.warned[marker] {
		return
	}
	f.warned[marker] = true
	f.Degraded = append(f.Degraded, marker)
	f.logger.Warn().Str("marker", marker).Msg("No secure random source, leaving marker in place")
	f.warn(fmt.Sprintf("We couldn't find a secure pseudo-random number generator on your system. "+
		"Please, make sure to manually %s later.", marker))
}

// credential returns the debug constant in debug mode and a generated
// value otherwise.
func (f *Filler) credential(rel, marker string, debug bool, generate func() (string, error)) error {
	if debug {
		return f.Set(rel, marker, secrets.DebugValue)
	}
	_, err := f.SetGenerated(rel, marker, generate, "")
	return err
}

// Generate copies .env.example to .env and fills every secret marker.
func (f *Filler) Generate(opts config.Options) error {
	if err := f.copyExample(); err != nil {
		return err
	}

	if err := f.credential(EnvFile, markers.PostgresUser, opts.Debug, f.gen.User); err != nil {
		return err
	}
	if err := f.credential(EnvFile, markers.PostgresPassword, opts.Debug, f.gen.Password); err != nil {
		return err
	}
	if _, err := f.SetGenerated(EnvFile, markers.DjangoSecretKey, f.gen.SecretKey, ""); err != nil {
		return err
	}
	if _, err := f.SetGenerated(EnvFile, markers.DjangoAdminURL, f.gen.AdminSlug, "%s/"); err != nil {
		return err
	}

	if opts.UseCelery {
		if err := f.credential(EnvFile, markers.CeleryFlowerUser, opts.Debug, f.gen.User); err != nil {
			return err
		}
		if err := f.credential(EnvFile, markers.CeleryFlowerPassword, opts.Debug, f.gen.Password); err != nil {
			return err
		}
	}

	f.logger.Info().Bool("debug", opts.Debug).Bool("celery", opts.UseCelery).Msg("Environment file generated")
	return nil
}

// SetSettingsSecretKeys gives each settings module its own secret key.
func (f *Filler) SetSettingsSecretKeys() error {
	for _, rel := range SettingsFiles {
		if _, err := f.SetGenerated(rel, markers.DjangoSecretKey, f.gen.SecretKey, ""); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) copyExample() error {
	src := filepath.Join(f.root, ExampleFile)
	dst := filepath.Join(f.root, EnvFile)

	info, err := f.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "%s is missing", ExampleFile).
				WithDetail("path", src)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}
	data, err := f.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	if err := f.fs.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dst)
	}
	return nil
}

// Report is the outcome of Verify.
type Report struct {
	// Keys is the number of variables parsed.
	Keys int
	// Unresolved maps variable names to the marker still in their value.
	Unresolved map[string]string
}

// UnresolvedKeys returns the unresolved variable names in order.
func (r *Report) UnresolvedKeys() []string {
	keys := make([]string, 0, len(r.Unresolved))
	for k := range r.Unresolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Verify parses an environment file and reports variables whose value is
// still a marker.
func Verify(fsys types.FS, path string) (*Report, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "%s not found", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}

	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}

	report := &Report{Keys: len(vars), Unresolved: map[string]string{}}
	for key, value := range vars {
		if found := markers.Remaining(value); len(found) > 0 {
			report.Unresolved[key] = found[0]
		}
	}
	return report, nil
}
