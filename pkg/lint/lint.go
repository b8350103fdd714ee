// Package lint regenerates the project template with default answers and
// runs ruff over the result.
package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/runner"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/rs/zerolog"
)

// Template engines.
const (
	EngineCopier       = "copier"
	EngineCookiecutter = "cookiecutter"
)

// Options select the template and tools.
type Options struct {
	Template string
	Engine   string
	Ruff     string
}

// OptionsFromConfig maps the [lint] config section.
func OptionsFromConfig(cfg config.Lint) Options {
	return Options{Template: cfg.Template, Engine: cfg.Engine, Ruff: cfg.Ruff}
}

// Checker runs the lint pass.
type Checker struct {
	runner  runner.Runner
	printer *ui.Printer
	logger  zerolog.Logger
	// tempDir creates the scratch directory the template is rendered into.
	tempDir func() (string, error)
}

// New returns a Checker.
func New(r runner.Runner, printer *ui.Printer) *Checker {
	return &Checker{
		runner:  r,
		printer: printer,
		logger:  logging.GetLogger("lint"),
		tempDir: func() (string, error) { return os.MkdirTemp("", "postgen-lint-") },
	}
}

// Run renders the template and lints it. The scratch directory is removed
// on every path out.
func (c *Checker) Run(ctx context.Context, opts Options) error {
	done := logging.LogOperationStart(c.logger, "lint")
	defer done()

	if opts.Ruff == "" {
		opts.Ruff = "ruff"
	}
	ruff, err := c.runner.LookPath(opts.Ruff)
	if err != nil {
		return errors.Wrap(err, errors.ErrToolNotFound, "ruff not found. Install with: uv sync")
	}

	template, err := filepath.Abs(opts.Template)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve template path %s", opts.Template)
	}

	dst, err := c.tempDir()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot create temporary directory")
	}
	defer func() {
		if err := os.RemoveAll(dst); err != nil {
			c.logger.Warn().Err(err).Str("dir", dst).Msg("Failed to remove temporary directory")
		}
	}()

	c.printer.Progress("Generating template with default options...")
	project, err := c.render(ctx, opts.Engine, template, dst)
	if err != nil {
		return err
	}
	c.printer.Pass("Generated project in: %s", project)

	// Import order depends on the project slug, which is only known once
	// the project exists, so fix it before checking.
	c.printer.Progress("Fixing import ordering...")
	if _, err := c.runner.Run(ctx, runner.Command{
		Name: ruff,
		Args: []string{"check", "--select", "I", "--fix", "."},
		Dir:  project,
	}); err != nil {
		c.logger.Debug().Err(err).Msg("Import ordering fix failed, continuing")
	}

	c.printer.Progress("Running ruff check...")
	result, err := c.runner.Run(ctx, runner.Command{
		Name: ruff,
		Args: []string{"check", "."},
		Dir:  project,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrToolFailed, "failed to run ruff")
	}

	if !result.Success() {
		c.printer.Fail("Ruff check failed:")
		c.printer.Plain("%s", result.Stdout)
		if result.Stderr != "" {
			c.printer.Plain("%s", result.Stderr)
		}
		return errors.Newf(errors.ErrLintFailed, "ruff check exited with status %d", result.ExitCode)
	}

	c.printer.Pass("Ruff check passed!")
	return nil
}

// RenderCommand builds the engine invocation rendering template into dst
// with default answers. The engine's test-mode variable is set in the
// child's environment only, which keeps the template's own post-generation
// hook from installing dependencies.
func RenderCommand(engine, template, dst string) (runner.Command, error) {
	switch strings.ToLower(engine) {
	case EngineCopier, "":
		return runner.Command{
			Name: EngineCopier,
			Args: []string{"copy", "--defaults", "--trust", "--vcs-ref", "HEAD", template, dst},
			Env:  map[string]string{config.EnvCopierTestMode: "1"},
		}, nil
	case EngineCookiecutter:
		return runner.Command{
			Name: EngineCookiecutter,
			Args: []string{"--no-input", "--output-dir", dst, template},
			Env:  map[string]string{config.EnvCookiecutterTestMode: "1"},
		}, nil
	default:
		return runner.Command{}, errors.Newf(errors.ErrInvalidInput, "unknown template engine %q", engine)
	}
}

// render runs the engine and returns the generated project's directory.
func (c *Checker) render(ctx context.Context, engine, template, dst string) (string, error) {
	cmd, err := RenderCommand(engine, template, dst)
	if err != nil {
		return "", err
	}

	result, err := c.runner.Run(ctx, cmd)
	if err != nil {
		code := errors.ErrRender
		if errors.IsErrorCode(err, errors.ErrToolNotFound) {
			code = errors.ErrToolNotFound
		}
		return "", errors.Wrap(err, code, "Error generating template")
	}
	if !result.Success() {
		return "", errors.Newf(errors.ErrRender, "Error generating template: %s exited with status %d",
			cmd.Name, result.ExitCode).
			WithDetail("stderr", result.Stderr)
	}

	entries, err := os.ReadDir(dst)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dst)
	}
	if len(entries) == 0 {
		return "", errors.New(errors.ErrRender, "No project was generated")
	}

	// cookiecutter renders into a directory named after the slug; copier
	// renders straight into dst.
	if cmd.Name == EngineCookiecutter && len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dst, entries[0].Name()), nil
	}
	return dst, nil
}
