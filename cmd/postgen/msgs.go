package postgen

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Finish and lint projects rendered from the Django template"
	MsgCustomizeShort  = "Customize a freshly generated project"
	MsgLintShort       = "Render the template with defaults and lint the result"
	MsgVerifyShort     = "Check that a customized project has no placeholders left"
	MsgFeaturesShort   = "List the files removed for each disabled feature"
	MsgFeaturesLong    = "Print the pruning catalog: for every optional feature, the condition under which it is removed and the files and directories that go with it."
	MsgGenConfigShort  = "Generate a postgen.toml with the default answers"
	MsgGenConfigLong   = "Output the default configuration to stdout, or write it to postgen.toml in DIR with --write."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVerifyComplete      = "%s is complete (%d variables)"
	MsgVerifyUnresolved    = "%s still holds %s"
	MsgVerifyGitignoreTail = ".gitignore does not end with .env"
	MsgConfigWritten       = "Wrote %s"

	// Hints
	MsgHintAnswers = "Run inside the generated project, or pass answers with --set (e.g. --set project_slug=shop)"

	// Error messages
	MsgErrUnresolved = "%d variable(s) in %s still hold placeholder markers"
	MsgErrConfigFile = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat      = "Output format: auto, term or text"
	MsgFlagSet         = "Override an answer, e.g. --set use_celery=y (repeatable)"
	MsgFlagDryRun      = "Preview changes without executing them"
	MsgFlagSkipInstall = "Do not install dependencies"
	MsgFlagNoBackend   = "Skip the containerized backend install"
	MsgFlagEngine      = "Template engine: copier or cookiecutter"
	MsgFlagTemplate    = "Template directory"
	MsgFlagPlain       = "Print raw Markdown"
	MsgFlagWrite       = "Write postgen.toml instead of printing it"
	MsgFlagCommented   = "Comment out every value"
	MsgFlagSlug        = "Project slug used in paths (default: from config)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/customize-long.txt
	msgCustomizeLongRaw string
	MsgCustomizeLong    = strings.TrimSpace(msgCustomizeLongRaw)

	//go:embed msgs/customize-example.txt
	msgCustomizeExampleRaw string
	MsgCustomizeExample    = strings.TrimRight(msgCustomizeExampleRaw, "\n")

	//go:embed msgs/lint-long.txt
	msgLintLongRaw string
	MsgLintLong    = strings.TrimSpace(msgLintLongRaw)

	//go:embed msgs/lint-example.txt
	msgLintExampleRaw string
	MsgLintExample    = strings.TrimRight(msgLintExampleRaw, "\n")

	//go:embed msgs/verify-long.txt
	msgVerifyLongRaw string
	MsgVerifyLong    = strings.TrimSpace(msgVerifyLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
