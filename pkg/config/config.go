package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// License is the open source license the project was generated with.
type License string

const (
	LicenseMIT           License = "MIT"
	LicenseBSD           License = "BSD"
	LicenseGPLv3         License = "GPLv3"
	LicenseApache        License = "Apache Software License 2.0"
	LicenseNotOpenSource License = "Not open source"
)

// Licenses lists every accepted license answer.
var Licenses = []License{LicenseMIT, LicenseBSD, LicenseGPLv3, LicenseApache, LicenseNotOpenSource}

// UsernameType selects how users log in.
type UsernameType string

const (
	UsernameTypeUsername UsernameType = "username"
	UsernameTypeEmail    UsernameType = "email"
)

// Options are the template answers the customizer acts on. They are
// resolved once and never change during a run.
type Options struct {
	ProjectSlug        string       `koanf:"project_slug" toml:"project_slug"`
	OpenSourceLicense  License      `koanf:"open_source_license" toml:"open_source_license"`
	UsernameType       UsernameType `koanf:"username_type" toml:"username_type"`
	UseCelery          bool         `koanf:"use_celery" toml:"use_celery"`
	UseDRF             bool         `koanf:"use_drf" toml:"use_drf"`
	UseAsync           bool         `koanf:"use_async" toml:"use_async"`
	UseHeroku          bool         `koanf:"use_heroku" toml:"use_heroku"`
	Debug              bool         `koanf:"debug" toml:"debug"`
	KeepLocalEnvsInVCS bool         `koanf:"keep_local_envs_in_vcs" toml:"keep_local_envs_in_vcs"`
}

// Install controls dependency installation.
type Install struct {
	// Backend toggles the containerized uv install. Disabling it is the
	// explicit opt-out; failures while it is enabled are fatal.
	Backend    bool   `koanf:"backend" toml:"backend"`
	Frontend   bool   `koanf:"frontend" toml:"frontend"`
	Image      string `koanf:"image" toml:"image"`
	Dockerfile string `koanf:"dockerfile" toml:"dockerfile"`
}

// Lint configures the template lint tool.
type Lint struct {
	Engine   string `koanf:"engine" toml:"engine"`
	Template string `koanf:"template" toml:"template"`
	Ruff     string `koanf:"ruff" toml:"ruff"`
}

// Config is the fully resolved configuration.
type Config struct {
	Options `koanf:",squash"`

	Install Install `koanf:"install" toml:"install"`
	Lint    Lint    `koanf:"lint" toml:"lint"`
}

// Engines lists the supported template engines.
var Engines = []string{"copier", "cookiecutter"}

var slugPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks answers that would otherwise surface as confusing
// filesystem errors later on.
func (c *Config) Validate() error {
	if !slugPattern.MatchString(c.ProjectSlug) {
		return errors.Newf(errors.ErrConfigValid, "invalid project_slug %q", c.ProjectSlug).
			WithDetail("key", "project_slug")
	}

	if !validLicense(c.OpenSourceLicense) {
		return errors.Newf(errors.ErrConfigValid, "unknown open_source_license %q", c.OpenSourceLicense).
			WithDetail("key", "open_source_license")
	}

	switch c.UsernameType {
	case UsernameTypeUsername, UsernameTypeEmail:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown username_type %q", c.UsernameType).
			WithDetail("key", "username_type")
	}

	if c.Install.Backend {
		if c.Install.Image == "" {
			return errors.New(errors.ErrConfigValid, "install.image must be set when install.backend is enabled")
		}
		if c.Install.Dockerfile == "" || filepath.IsAbs(c.Install.Dockerfile) {
			return errors.Newf(errors.ErrConfigValid, "install.dockerfile must be a project-relative path, got %q", c.Install.Dockerfile)
		}
	}

	engine := strings.ToLower(c.Lint.Engine)
	for _, e := range Engines {
		if e == engine {
			c.Lint.Engine = engine
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "unknown lint.engine %q (want one of %s)",
		c.Lint.Engine, strings.Join(Engines, ", "))
}

func validLicense(l License) bool {
	for _, known := range Licenses {
		if l == known {
			return true
		}
	}
	return false
}
