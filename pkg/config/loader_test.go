package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{ProjectDir: t.TempDir(), SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "my_awesome_project", cfg.ProjectSlug)
	assert.Equal(t, LicenseMIT, cfg.OpenSourceLicense)
	assert.Equal(t, UsernameTypeUsername, cfg.UsernameType)
	assert.False(t, cfg.UseCelery)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.KeepLocalEnvsInVCS)
	assert.True(t, cfg.Install.Backend)
	assert.True(t, cfg.Install.Frontend)
	assert.Equal(t, "cookiecutter-django-uv-runner:latest", cfg.Install.Image)
	assert.Equal(t, "docker/local/uv/Dockerfile", cfg.Install.Dockerfile)
	assert.Equal(t, "copier", cfg.Lint.Engine)
}

func TestLoad_CopierAnswers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CopierAnswersFile, `# Changes here will be overwritten by Copier
_commit: 1a2b3c
_src_path: gh:example/django-template
project_slug: shop
open_source_license: GPLv3
username_type: email
use_celery: y
use_drf: "n"
use_async: true
use_heroku: no
debug: false
keep_local_envs_in_vcs: n
`)

	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.ProjectSlug)
	assert.Equal(t, LicenseGPLv3, cfg.OpenSourceLicense)
	assert.Equal(t, UsernameTypeEmail, cfg.UsernameType)
	assert.True(t, cfg.UseCelery)
	assert.False(t, cfg.UseDRF)
	assert.True(t, cfg.UseAsync)
	assert.False(t, cfg.UseHeroku)
	assert.False(t, cfg.KeepLocalEnvsInVCS)
}

func TestLoad_TomlAnswers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, AnswersFile, `
project_slug = "blog"
use_celery = "y"
open_source_license = "Not open source"

[install]
backend = false
`)

	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "blog", cfg.ProjectSlug)
	assert.True(t, cfg.UseCelery)
	assert.Equal(t, LicenseNotOpenSource, cfg.OpenSourceLicense)
	assert.False(t, cfg.Install.Backend)
	// untouched keys keep their defaults
	assert.True(t, cfg.Install.Frontend)
}

func TestLoad_CopierAnswersWinOverToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CopierAnswersFile, "project_slug: from_copier\n")
	writeFile(t, dir, AnswersFile, "project_slug = \"from_toml\"\n")

	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "from_copier", cfg.ProjectSlug)
}

func TestLoad_EnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, AnswersFile, "use_celery = false\nuse_drf = false\n")

	t.Setenv("POSTGEN_USE_CELERY", "y")
	t.Setenv("POSTGEN_USE_DRF", "y")
	t.Setenv("POSTGEN_INSTALL__FRONTEND", "false")

	cfg, err := Load(LoadOptions{
		ProjectDir: dir,
		Overrides:  []string{"use_drf=n", "lint.engine=Cookiecutter"},
	})
	require.NoError(t, err)

	assert.True(t, cfg.UseCelery, "env beats answers file")
	assert.False(t, cfg.UseDRF, "--set beats env")
	assert.False(t, cfg.Install.Frontend)
	assert.Equal(t, "cookiecutter", cfg.Lint.Engine, "engine is normalised")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		wantCode  errors.ErrorCode
	}{
		{"unknown license", []string{"open_source_license=WTFPL"}, errors.ErrConfigValid},
		{"unknown username type", []string{"username_type=phone"}, errors.ErrConfigValid},
		{"slug with path separator", []string{"project_slug=../evil"}, errors.ErrConfigValid},
		{"unknown engine", []string{"lint.engine=yeoman"}, errors.ErrConfigValid},
		{"bad yes/no", []string{"use_celery=maybe"}, errors.ErrConfigParse},
		{"malformed override", []string{"use_celery"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{ProjectDir: t.TempDir(), SkipEnv: true, Overrides: tt.overrides})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestLoad_RequireAnswers(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		env       map[string]string
		overrides []string
		wantErr   bool
	}{
		{name: "nothing given", wantErr: true},
		{name: "copier answers file", files: map[string]string{CopierAnswersFile: "project_slug: shop\n"}},
		{name: "toml answers file", files: map[string]string{AnswersFile: "use_celery = true\n"}},
		{name: "answer override", overrides: []string{"project_slug=shop"}},
		{name: "answer from env", env: map[string]string{"POSTGEN_USE_DRF": "y"}},
		{name: "install setting only", overrides: []string{"install.backend=false"}, wantErr: true},
		{name: "unrelated env", env: map[string]string{"POSTGEN_LOG_FILE": "/tmp/postgen.log"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(LoadOptions{
				ProjectDir:     dir,
				Overrides:      tt.overrides,
				SkipEnv:        len(tt.env) == 0,
				RequireAnswers: true,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAnswerKeys(t *testing.T) {
	keys := AnswerKeys()
	assert.True(t, keys["project_slug"])
	assert.True(t, keys["use_celery"])
	assert.False(t, keys["install"])
	assert.Len(t, keys, 9)
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"y", true, false},
		{"Y", true, false},
		{" yes ", true, false},
		{"true", true, false},
		{"n", false, false},
		{"No", false, false},
		{"", false, false},
		{"0", false, false},
		{"perhaps", false, true},
	}

	for _, tt := range tests {
		got, err := ParseYesNo(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTestMode(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	assert.False(t, TestMode(getenv))

	env[EnvCookiecutterTestMode] = "1"
	assert.True(t, TestMode(getenv))

	delete(env, EnvCookiecutterTestMode)
	env[EnvCopierTestMode] = "1"
	assert.True(t, TestMode(getenv))
}

func TestGenerateConfigContent(t *testing.T) {
	cfg, err := Load(LoadOptions{ProjectDir: t.TempDir(), SkipEnv: true, Overrides: []string{"project_slug=shop", "use_celery=y"}})
	require.NoError(t, err)

	t.Run("live values load back", func(t *testing.T) {
		content, err := GenerateConfigContent(cfg, false)
		require.NoError(t, err)

		dir := t.TempDir()
		writeFile(t, dir, AnswersFile, content)

		loaded, err := Load(LoadOptions{ProjectDir: dir, SkipEnv: true})
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("commented values", func(t *testing.T) {
		content, err := GenerateConfigContent(cfg, true)
		require.NoError(t, err)

		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "[") {
				continue
			}
			assert.True(t, strings.HasPrefix(trimmed, "#"), "line %q should be commented", line)
		}
		assert.Contains(t, content, "[install]")
	})
}
