// Package postgen holds the postgen command line.
package postgen

import (
	"fmt"
	"os"

	"github.com/arthur-debert/postgen/internal/version"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/runner"
	"github.com/arthur-debert/postgen/pkg/secrets"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// environment carries the capabilities commands act through. Tests swap
// in a fake runner and a controlled getenv.
type environment struct {
	fs     types.FS
	runner runner.Runner
	gen    *secrets.Generator
	getenv func(string) string

	format string
}

func defaultEnvironment() *environment {
	return &environment{
		fs:     filesystem.NewOS(),
		runner: runner.NewExec(os.Stdout, os.Stderr),
		gen:    secrets.New(),
		getenv: os.Getenv,
	}
}

// printer builds the message printer for cmd's output streams.
func (e *environment) printer(cmd *cobra.Command) (*ui.Printer, error) {
	format, err := ui.ParseFormat(e.format)
	if err != nil {
		return nil, err
	}
	return ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), format), nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnvironment())
}

func newRootCmd(env *environment) *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "postgen",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&env.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "project", Title: "PROJECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "template", Title: "TEMPLATE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(newCustomizeCmd(env))
	rootCmd.AddCommand(newVerifyCmd(env))
	rootCmd.AddCommand(newLintCmd(env))
	rootCmd.AddCommand(newFeaturesCmd(env))
	rootCmd.AddCommand(newGenConfigCmd(env))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "postgen version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
