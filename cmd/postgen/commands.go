package postgen

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/customize"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/gitignore"
	"github.com/arthur-debert/postgen/pkg/lint"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/prune"
	"github.com/spf13/cobra"
)

// dirArg returns the optional directory argument, defaulting to ".".
func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func newCustomizeCmd(env *environment) *cobra.Command {
	var (
		sets        []string
		dryRun      bool
		skipInstall bool
		noBackend   bool
	)

	cmd := &cobra.Command{
		Use:     "customize [dir]",
		Short:   MsgCustomizeShort,
		Long:    MsgCustomizeLong,
		Example: MsgCustomizeExample,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.customize")
			dir := dirArg(args)

			printer, err := env.printer(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(config.LoadOptions{
				ProjectDir:     dir,
				Overrides:      sets,
				RequireAnswers: true,
			})
			if err != nil {
				if errors.IsErrorCode(err, errors.ErrConfigMissing) {
					printer.Hint(MsgHintAnswers)
				}
				return err
			}
			if noBackend {
				cfg.Install.Backend = false
			}

			testMode := config.TestMode(env.getenv)
			logger.Info().
				Str("dir", dir).
				Bool("testMode", testMode).
				Bool("dryRun", dryRun).
				Msg("Starting customize")

			c := customize.New(env.fs, env.runner, printer, env.gen)
			_, err = c.Run(cmd.Context(), customize.Options{
				Root:        dir,
				Config:      cfg,
				SkipInstall: skipInstall || testMode,
				DryRun:      dryRun,
			})
			return err
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, MsgFlagSet)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, MsgFlagSkipInstall)
	cmd.Flags().BoolVar(&noBackend, "no-backend", false, MsgFlagNoBackend)

	return cmd
}

func newVerifyCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:     "verify [dir]",
		Short:   MsgVerifyShort,
		Long:    MsgVerifyLong,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dirArg(args)
			printer, err := env.printer(cmd)
			if err != nil {
				return err
			}

			report, err := envfile.Verify(env.fs, filepath.Join(dir, envfile.EnvFile))
			if err != nil {
				return err
			}

			ok, err := gitignore.Check(env.fs, dir)
			if err != nil {
				return err
			}
			if !ok {
				printer.Warning(MsgVerifyGitignoreTail)
			}

			if keys := report.UnresolvedKeys(); len(keys) > 0 {
				for _, key := range keys {
					printer.Warning(MsgVerifyUnresolved, key, report.Unresolved[key])
				}
				return errors.Newf(errors.ErrMarkerNotFound, MsgErrUnresolved, len(keys), envfile.EnvFile)
			}

			printer.Success(MsgVerifyComplete, envfile.EnvFile, report.Keys)
			return nil
		},
	}
}

func newLintCmd(env *environment) *cobra.Command {
	var (
		engine   string
		template string
	)

	cmd := &cobra.Command{
		Use:     "lint",
		Short:   MsgLintShort,
		Long:    MsgLintLong,
		Example: MsgLintExample,
		GroupID: "template",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{ProjectDir: "."})
			if err != nil {
				return err
			}
			opts := lint.OptionsFromConfig(cfg.Lint)
			if cmd.Flags().Changed("engine") {
				opts.Engine = engine
			}
			if cmd.Flags().Changed("template") {
				opts.Template = template
			}

			printer, err := env.printer(cmd)
			if err != nil {
				return err
			}
			return lint.New(env.runner, printer).Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&engine, "engine", lint.EngineCopier, MsgFlagEngine)
	cmd.Flags().StringVar(&template, "template", ".", MsgFlagTemplate)
	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(config.Engines, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newFeaturesCmd(env *environment) *cobra.Command {
	var (
		plain bool
		slug  string
	)

	cmd := &cobra.Command{
		Use:     "features",
		Short:   MsgFeaturesShort,
		Long:    MsgFeaturesLong,
		GroupID: "template",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slug == "" {
				cfg, err := config.Load(config.LoadOptions{ProjectDir: "."})
				if err != nil {
					return err
				}
				slug = cfg.ProjectSlug
			}

			printer, err := env.printer(cmd)
			if err != nil {
				return err
			}

			md := prune.Markdown(slug)
			if plain {
				printer.Plain("%s", md)
				return nil
			}
			printer.Plain("%s", printer.RenderMarkdown(md, 100))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, MsgFlagPlain)
	cmd.Flags().StringVar(&slug, "slug", "", MsgFlagSlug)

	return cmd
}

func newGenConfigCmd(env *environment) *cobra.Command {
	var (
		write     bool
		commented bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig [dir]",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dirArg(args)
			cfg, err := config.Load(config.LoadOptions{ProjectDir: dir})
			if err != nil {
				return err
			}

			content, err := config.GenerateConfigContent(cfg, commented)
			if err != nil {
				return err
			}

			if !write {
				_, err := cmd.OutOrStdout().Write([]byte(content))
				return err
			}

			path := filepath.Join(dir, config.AnswersFile)
			if _, err := env.fs.Stat(path); err == nil {
				return errors.Newf(errors.ErrFileWrite, MsgErrConfigFile, path)
			} else if !os.IsNotExist(err) {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
			}
			if err := env.fs.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
			}

			printer, err := env.printer(cmd)
			if err != nil {
				return err
			}
			printer.Success(MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&commented, "commented", false, MsgFlagCommented)

	return cmd
}
