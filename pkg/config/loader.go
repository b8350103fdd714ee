package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides: POSTGEN_USE_CELERY=n,
	// POSTGEN_INSTALL__BACKEND=false.
	EnvPrefix = "POSTGEN_"

	// CopierAnswersFile is written by copier into every rendered project.
	CopierAnswersFile = ".copier-answers.yml"

	// AnswersFile is the answers file cookiecutter templates render.
	AnswersFile = "postgen.toml"

	// EnvCookiecutterTestMode and EnvCopierTestMode make the customizer skip
	// dependency installation.
	EnvCookiecutterTestMode = "COOKIECUTTER_TEST_MODE"
	EnvCopierTestMode       = "COPIER_TEST_MODE"
)

// LoadOptions selects where configuration is read from.
type LoadOptions struct {
	// ProjectDir is searched for an answers file.
	ProjectDir string
	// Overrides are "key=value" pairs from the command line.
	Overrides []string
	// SkipEnv ignores POSTGEN_* variables.
	SkipEnv bool
	// RequireAnswers fails the load when no source names a template
	// answer, instead of falling back to the embedded defaults.
	RequireAnswers bool
}

// Load resolves the configuration from all sources and validates it.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	answered := false

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Answers file left in the project
	if path, parser := findAnswersFile(opts.ProjectDir); path != "" {
		logger.Debug().Str("path", path).Msg("Loading answers file")
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load answers from %s", path)
		}
		answered = true
	}

	// 3. Environment
	if !opts.SkipEnv {
		ek := koanf.New(".")
		if err := ek.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
		answered = answered || namesAnswer(ek.Keys())
		if err := k.Merge(ek); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to merge env vars")
		}
	}

	// 4. Command line overrides
	if len(opts.Overrides) > 0 {
		overrides, err := ParseOverrides(opts.Overrides)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
		keys := make([]string, 0, len(overrides))
		for key := range overrides {
			keys = append(keys, key)
		}
		answered = answered || namesAnswer(keys)
	}

	if opts.RequireAnswers && !answered {
		return nil, errors.Newf(errors.ErrConfigMissing,
			"no template answers found in %s: expected %s or %s", opts.ProjectDir, CopierAnswersFile, AnswersFile).
			WithDetail("dir", opts.ProjectDir)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				yesNoHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("slug", cfg.ProjectSlug).
		Str("license", string(cfg.OpenSourceLicense)).
		Bool("celery", cfg.UseCelery).
		Bool("drf", cfg.UseDRF).
		Bool("async", cfg.UseAsync).
		Bool("heroku", cfg.UseHeroku).
		Bool("debug", cfg.Debug).
		Msg("Configuration resolved")

	return &cfg, nil
}

// namesAnswer reports whether any of keys is a template answer rather than
// an install or lint setting.
func namesAnswer(keys []string) bool {
	answers := AnswerKeys()
	for _, key := range keys {
		if answers[key] {
			return true
		}
	}
	return false
}

// AnswerKeys returns the koanf keys of every template answer.
func AnswerKeys() map[string]bool {
	t := reflect.TypeOf(Options{})
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			keys[tag] = true
		}
	}
	return keys
}

// findAnswersFile returns the first answers file present in dir.
func findAnswersFile(dir string) (string, koanf.Parser) {
	if dir == "" {
		return "", nil
	}
	candidates := []struct {
		name   string
		parser koanf.Parser
	}{
		{CopierAnswersFile, yaml.Parser()},
		{AnswersFile, toml.Parser()},
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		if _, err := os.Stat(path); err == nil {
			return path, c.parser
		}
	}
	return "", nil
}

// envKey maps POSTGEN_INSTALL__BACKEND to install.backend.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// ParseOverrides turns "key=value" pairs into a flat koanf map.
func ParseOverrides(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "override %q must look like key=value", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// yesNoHookFunc decodes "y"/"n" style answers into bools.
func yesNoHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		b, err := ParseYesNo(reflect.ValueOf(data).String())
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// ParseYesNo accepts the spellings templates use for boolean answers.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "on":
		return true, nil
	case "n", "no", "false", "0", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("cannot interpret %q as yes/no", s)
}

// TestMode reports whether either template engine asked for a fast run
// without dependency installation. getenv is usually os.Getenv.
func TestMode(getenv func(string) string) bool {
	return getenv(EnvCookiecutterTestMode) != "" || getenv(EnvCopierTestMode) != ""
}
