// Package install sets up a generated project's dependencies.
//
// The backend step builds a small image that carries uv, uses it to
// convert the pip requirement files into project dependencies and then
// removes the scaffolding it needed. Every backend failure is fatal. The
// frontend step installs node packages with pnpm on a best-effort basis.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/runner"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/rs/zerolog"
)

const (
	// RequirementsDir holds the pip requirement files consumed by uv.
	RequirementsDir = "requirements"
	// ProductionRequirements and LocalRequirements are relative to the
	// project root, which is mounted at /app in the container.
	ProductionRequirements = "requirements/production.txt"
	LocalRequirements      = "requirements/local.txt"

	mountPoint = "/app"
)

// Installer runs the install steps for one project.
type Installer struct {
	fs      types.FS
	runner  runner.Runner
	printer *ui.Printer
	root    string
	cfg     config.Install
	logger  zerolog.Logger
}

// New returns an Installer for the project at root.
func New(fsys types.FS, r runner.Runner, printer *ui.Printer, root string, cfg config.Install) *Installer {
	return &Installer{
		fs:      fsys,
		runner:  r,
		printer: printer,
		root:    root,
		cfg:     cfg,
		logger:  logging.GetLogger("install"),
	}
}

// Run performs the enabled steps: backend first, then frontend.
func (i *Installer) Run(ctx context.Context) error {
	if i.cfg.Backend {
		if err := i.Backend(ctx); err != nil {
			return err
		}
	} else {
		i.logger.Info().Msg("Backend installation disabled")
	}

	if i.cfg.Frontend {
		i.Frontend(ctx)
	}
	return nil
}

// BackendCommands lists the container commands the backend step runs.
func (i *Installer) BackendCommands() ([]runner.Command, error) {
	abs, err := filepath.Abs(i.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve project path %s", i.root)
	}

	uv := func(args ...string) runner.Command {
		return runner.Command{
			Name:   "docker",
			Args:   append([]string{"run", "--rm", "-v", abs + ":" + mountPoint, i.cfg.Image, "uv"}, args...),
			Dir:    i.root,
			Stream: true,
		}
	}

	return []runner.Command{
		{
			Name:   "docker",
			Args:   []string{"build", "--load", "-t", i.cfg.Image, "-f", i.cfg.Dockerfile, "-q", "."},
			Dir:    i.root,
			Env:    map[string]string{"DOCKER_BUILDKIT": "1"},
			Stream: true,
		},
		uv("add", "--no-sync", "-r", ProductionRequirements),
		uv("add", "--no-sync", "--dev", "-r", LocalRequirements),
	}, nil
}

// CleanupDirs lists the project directories removed after a successful
// backend install.
func (i *Installer) CleanupDirs() []string {
	return []string{RequirementsDir, filepath.Dir(i.cfg.Dockerfile)}
}

// Backend builds the uv image, imports the requirement files and removes
// the requirement and image directories.
func (i *Installer) Backend(ctx context.Context) error {
	done := logging.LogOperationStart(i.logger, "backend install")
	defer done()

	i.printer.Plain("Installing python dependencies using uv...")

	commands, err := i.BackendCommands()
	if err != nil {
		return err
	}

	steps := []string{
		"building Docker image",
		"installing production dependencies",
		"installing local dependencies",
	}
	for n, cmd := range commands {
		if _, err := runner.MustSucceed(ctx, i.runner, cmd, "Error "+steps[n]); err != nil {
			return err
		}
	}

	for _, dir := range i.CleanupDirs() {
		if err := i.removeIfExists(dir); err != nil {
			return err
		}
	}

	i.printer.Plain("Python dependencies installed!")
	return nil
}

func (i *Installer) removeIfExists(rel string) error {
	path := filepath.Join(i.root, rel)
	if _, err := i.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			i.logger.Debug().Str("path", rel).Msg("Nothing to clean up")
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", rel)
	}
	if err := i.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "Error removing '%s' folder", rel).
			WithDetail("path", path)
	}
	i.logger.Debug().Str("path", rel).Msg("Removed")
	return nil
}

// Frontend installs node packages. Problems are reported and never abort
// the run.
func (i *Installer) Frontend(ctx context.Context) {
	done := logging.LogOperationStart(i.logger, "frontend install")
	defer done()

	i.printer.Plain("Installing frontend dependencies using pnpm...")

	version, err := i.runner.Run(ctx, runner.Command{Name: "pnpm", Args: []string{"--version"}, Dir: i.root})
	if err != nil || !version.Success() {
		i.logger.Warn().Err(err).Int("exitCode", version.ExitCode).Msg("pnpm unavailable")
		i.printer.Warning("pnpm is not installed. Please install pnpm to set up frontend dependencies.")
		i.printer.Hint("Install with: npm install -g pnpm")
		return
	}

	_, err = runner.MustSucceed(ctx, i.runner,
		runner.Command{Name: "pnpm", Args: []string{"install"}, Dir: i.root, Stream: true},
		"installing frontend dependencies")
	if err != nil {
		i.logger.Error().Err(err).Msg("pnpm install failed")
		i.printer.Error("Error installing frontend dependencies: %v", err)
		return
	}

	i.printer.Plain("Frontend dependencies installed!")
}

// Describe renders the commands Run would execute, for dry runs.
func (i *Installer) Describe() ([]string, error) {
	var lines []string
	if i.cfg.Backend {
		commands, err := i.BackendCommands()
		if err != nil {
			return nil, err
		}
		for _, cmd := range commands {
			lines = append(lines, cmd.String())
		}
		for _, dir := range i.CleanupDirs() {
			lines = append(lines, fmt.Sprintf("rm -rf %s", dir))
		}
	}
	if i.cfg.Frontend {
		lines = append(lines, "pnpm --version", "pnpm install")
	}
	return lines, nil
}
