// Package customize turns a freshly rendered project into a ready one.
//
// Run makes a single forward pass: generate the .env file, give the
// settings modules their secret keys, prune the files of disabled
// features, update .gitignore, install dependencies and report success.
// Any fatal error stops the pass where it happened; nothing is rolled
// back.
package customize

import (
	"context"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/gitignore"
	"github.com/arthur-debert/postgen/pkg/install"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/prune"
	"github.com/arthur-debert/postgen/pkg/runner"
	"github.com/arthur-debert/postgen/pkg/secrets"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/rs/zerolog"
)

// SuccessMessage closes a successful run.
const SuccessMessage = "Project initialized, keep up the good work!"

// Options control one run.
type Options struct {
	// Root is the project directory.
	Root   string
	Config *config.Config
	// SkipInstall disables dependency installation. The template's test
	// mode sets it.
	SkipInstall bool
	// DryRun reports what would change without writing, removing or
	// running anything.
	DryRun bool
}

// Summary describes what a run did.
type Summary struct {
	Removed   []string
	Skipped   []string
	Gitignore []string
	// Degraded lists markers left unresolved for lack of a secure
	// random source.
	Degraded  []string
	Installed bool
}

// Customizer holds the capabilities a run needs.
type Customizer struct {
	fs      types.FS
	runner  runner.Runner
	printer *ui.Printer
	gen     *secrets.Generator
	logger  zerolog.Logger
}

// New returns a Customizer.
func New(fsys types.FS, r runner.Runner, printer *ui.Printer, gen *secrets.Generator) *Customizer {
	return &Customizer{
		fs:      fsys,
		runner:  r,
		printer: printer,
		gen:     gen,
		logger:  logging.GetLogger("customize"),
	}
}

// Run customizes the project described by opts.
func (c *Customizer) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no configuration given")
	}
	done := logging.LogOperationStart(c.logger, "customize")
	defer done()

	cfg := opts.Config
	c.logger.Info().
		Str("root", opts.Root).
		Str("slug", cfg.ProjectSlug).
		Bool("skipInstall", opts.SkipInstall).
		Bool("dryRun", opts.DryRun).
		Msg("Customizing project")

	if opts.DryRun {
		return c.dryRun(opts)
	}

	summary := &Summary{}
	filler := envfile.NewFiller(c.fs, opts.Root, c.gen, func(msg string) { c.printer.Warning("%s", msg) })

	if err := filler.Generate(cfg.Options); err != nil {
		return summary, err
	}
	if err := filler.SetSettingsSecretKeys(); err != nil {
		return summary, err
	}
	summary.Degraded = filler.Degraded

	result, err := prune.Apply(c.fs, opts.Root, prune.Plan(cfg.Options), false)
	if err != nil {
		return summary, err
	}
	summary.Removed, summary.Skipped = result.Removed, result.Skipped

	summary.Gitignore = gitignore.Entries(cfg.KeepLocalEnvsInVCS)
	if err := gitignore.Append(c.fs, opts.Root, summary.Gitignore...); err != nil {
		return summary, err
	}

	if !opts.SkipInstall {
		installer := install.New(c.fs, c.runner, c.printer, opts.Root, cfg.Install)
		if err := installer.Run(ctx); err != nil {
			return summary, err
		}
		summary.Installed = true
	} else {
		c.logger.Info().Msg("Test mode, skipping dependency installation")
	}

	c.printer.Success(SuccessMessage)
	return summary, nil
}

// dryRun checks the plan against the project and reports it.
func (c *Customizer) dryRun(opts Options) (*Summary, error) {
	cfg := opts.Config
	summary := &Summary{}

	c.printer.Info("dry run, nothing will be changed")
	c.printer.Info("would create %s from %s and fill its secrets", envfile.EnvFile, envfile.ExampleFile)
	for _, rel := range envfile.SettingsFiles {
		c.printer.Info("would set the secret key in %s", rel)
	}

	result, err := prune.Apply(c.fs, opts.Root, prune.Plan(cfg.Options), true)
	if err != nil {
		return summary, err
	}
	summary.Removed, summary.Skipped = result.Removed, result.Skipped
	for _, target := range result.Removed {
		c.printer.Info("would remove %s", target)
	}

	summary.Gitignore = gitignore.Entries(cfg.KeepLocalEnvsInVCS)
	for _, line := range summary.Gitignore {
		c.printer.Info("would append %q to %s", line, gitignore.FileName)
	}

	if !opts.SkipInstall {
		lines, err := install.New(c.fs, c.runner, c.printer, opts.Root, cfg.Install).Describe()
		if err != nil {
			return summary, err
		}
		for _, line := range lines {
			c.printer.Info("would run %s", line)
		}
	}
	return summary, nil
}
