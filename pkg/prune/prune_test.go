package prune

import (
	stderrors "errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	root = "/project"
	slug = "shop"
)

// templateFiles is a trimmed rendering of the template with every optional
// feature present.
var templateFiles = []string{
	"CONTRIBUTORS.txt",
	"LICENSE",
	"COPYING",
	"README.md",
	"Procfile",
	"bin/post_compile",
	"config/celery_app.py",
	"config/api_router.py",
	"config/asgi.py",
	"config/websocket.py",
	"config/urls.py",
	"config/settings/base.py",
	"compose/local/django/Dockerfile",
	"compose/local/django/celery/worker/start",
	"compose/local/django/celery/beat/start",
	"compose/production/django/celery/worker/start",
	"shop/users/models.py",
	"shop/users/managers.py",
	"shop/users/tasks.py",
	"shop/users/api/views.py",
	"shop/users/api/serializers.py",
	"shop/users/tests/test_models.py",
	"shop/users/tests/test_managers.py",
	"shop/users/tests/test_tasks.py",
	"shop/users/tests/api/test_views.py",
	"apps/shop/openapi-ts.config.ts",
}

func newProject(t *testing.T, files []string) types.FS {
	t.Helper()
	fsys := filesystem.NewMemory()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte("# "+rel+"\n"), 0644))
	}
	return fsys
}

func allOn() config.Options {
	return config.Options{
		ProjectSlug:       slug,
		OpenSourceLicense: config.LicenseGPLv3,
		UsernameType:      config.UsernameTypeEmail,
		UseCelery:         true,
		UseDRF:            true,
		UseAsync:          true,
		UseHeroku:         true,
	}
}

func targets(ops []types.Operation) []string {
	var out []string
	for _, op := range ops {
		out = append(out, filepath.ToSlash(op.Target))
	}
	sort.Strings(out)
	return out
}

func exists(fsys types.FS, rel string) bool {
	_, err := fsys.Stat(filepath.Join(root, rel))
	return err == nil
}

func TestPlan_AllFeaturesEnabled(t *testing.T) {
	assert.Empty(t, Plan(allOn()))
}

func TestPlan_PerFeature(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Options)
		want   []string
	}{
		{
			name:   "not open source",
			mutate: func(o *config.Options) { o.OpenSourceLicense = config.LicenseNotOpenSource },
			want:   []string{"CONTRIBUTORS.txt", "COPYING", "LICENSE"},
		},
		{
			name:   "MIT drops only COPYING",
			mutate: func(o *config.Options) { o.OpenSourceLicense = config.LicenseMIT },
			want:   []string{"COPYING"},
		},
		{
			name:   "username login",
			mutate: func(o *config.Options) { o.UsernameType = config.UsernameTypeUsername },
			want:   []string{"shop/users/managers.py", "shop/users/tests/test_managers.py"},
		},
		{
			name:   "no celery",
			mutate: func(o *config.Options) { o.UseCelery = false },
			want: []string{
				"compose/local/django/celery",
				"compose/production/django/celery",
				"config/celery_app.py",
				"shop/users/tasks.py",
				"shop/users/tests/test_tasks.py",
			},
		},
		{
			name:   "no drf",
			mutate: func(o *config.Options) { o.UseDRF = false },
			want: []string{
				"apps/shop/openapi-ts.config.ts",
				"config/api_router.py",
				"shop/users/api",
				"shop/users/tests/api",
			},
		},
		{
			name:   "no async",
			mutate: func(o *config.Options) { o.UseAsync = false },
			want:   []string{"config/asgi.py", "config/websocket.py"},
		},
		{
			name:   "no heroku",
			mutate: func(o *config.Options) { o.UseHeroku = false },
			want:   []string{"Procfile", "bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := allOn()
			tt.mutate(&opts)
			ops := Plan(opts)
			assert.Equal(t, tt.want, targets(ops))
			for _, op := range ops {
				assert.Equal(t, types.StatusReady, op.Status)
				assert.NotEmpty(t, op.Feature)
			}
		})
	}
}

func TestPlan_DeduplicatesAndSubsumes(t *testing.T) {
	catalog := []Feature{
		{
			Name:     "a",
			Disabled: func(config.Options) bool { return true },
			Operations: func(string) []types.Operation {
				return []types.Operation{
					types.DeleteFile("docs/guide.md"),
					types.DeleteFile("Procfile"),
				}
			},
		},
		{
			Name:     "b",
			Disabled: func(config.Options) bool { return true },
			Operations: func(string) []types.Operation {
				return []types.Operation{
					types.DeleteDir("docs"),
					types.DeleteFile("./Procfile"),
					types.DeleteDir("docs/api"),
				}
			},
		},
	}

	ops := plan(catalog, config.Options{})
	require.Len(t, ops, 4, "Procfile is planned once")

	status := map[string]types.OperationStatus{}
	for _, op := range ops {
		status[filepath.ToSlash(op.Target)] = op.Status
	}
	assert.Equal(t, types.StatusSkipped, status["docs/guide.md"])
	assert.Equal(t, types.StatusSkipped, status["docs/api"])
	assert.Equal(t, types.StatusReady, status["docs"])
	assert.Equal(t, types.StatusReady, status["Procfile"])
}

func TestApply_NoCelery(t *testing.T) {
	fsys := newProject(t, templateFiles)
	opts := allOn()
	opts.UseCelery = false

	result, err := Apply(fsys, root, Plan(opts), false)
	require.NoError(t, err)
	assert.Len(t, result.Removed, 5)

	for _, gone := range []string{
		"config/celery_app.py",
		"shop/users/tasks.py",
		"shop/users/tests/test_tasks.py",
		"compose/local/django/celery",
		"compose/production/django/celery",
	} {
		assert.False(t, exists(fsys, gone), gone)
	}
	for _, kept := range []string{
		"compose/local/django/Dockerfile",
		"config/api_router.py",
		"config/asgi.py",
		"shop/users/api/views.py",
		"Procfile",
		"COPYING",
	} {
		assert.True(t, exists(fsys, kept), kept)
	}
}

func TestApply_DefaultsRemoveEverythingOptional(t *testing.T) {
	fsys := newProject(t, templateFiles)
	opts := config.Options{
		ProjectSlug:       slug,
		OpenSourceLicense: config.LicenseNotOpenSource,
		UsernameType:      config.UsernameTypeUsername,
	}

	_, err := Apply(fsys, root, Plan(opts), false)
	require.NoError(t, err)

	for _, kept := range []string{
		"README.md",
		"config/urls.py",
		"config/settings/base.py",
		"compose/local/django/Dockerfile",
		"shop/users/models.py",
		"shop/users/tests/test_models.py",
	} {
		assert.True(t, exists(fsys, kept), kept)
	}
	for _, gone := range []string{"LICENSE", "bin", "shop/users/api", "apps/shop/openapi-ts.config.ts", "config/websocket.py"} {
		assert.False(t, exists(fsys, gone), gone)
	}
}

func TestApply_OptionalTargetAbsent(t *testing.T) {
	files := []string{}
	for _, f := range templateFiles {
		if f != "apps/shop/openapi-ts.config.ts" {
			files = append(files, f)
		}
	}
	fsys := newProject(t, files)
	opts := allOn()
	opts.UseDRF = false

	result, err := Apply(fsys, root, Plan(opts), false)
	require.NoError(t, err)
	assert.Contains(t, result.Skipped, filepath.Join("apps", "shop", "openapi-ts.config.ts"))
	assert.False(t, exists(fsys, "config/api_router.py"))
}

func TestApply_DriftRemovesNothing(t *testing.T) {
	files := []string{}
	for _, f := range templateFiles {
		if f != "config/websocket.py" {
			files = append(files, f)
		}
	}
	fsys := newProject(t, files)
	opts := allOn()
	opts.UseAsync = false
	opts.UseHeroku = false

	_, err := Apply(fsys, root, Plan(opts), false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateDrift))
	assert.Equal(t, "async", errors.GetErrorDetails(err)["feature"])

	assert.True(t, exists(fsys, "config/asgi.py"), "checks run before any removal")
	assert.True(t, exists(fsys, "Procfile"))
}

func TestApply_WrongKind(t *testing.T) {
	fsys := newProject(t, []string{"Procfile", "bin"}) // bin is a file here
	opts := allOn()
	opts.UseHeroku = false

	_, err := Apply(fsys, root, Plan(opts), false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateDrift))
}

// failingRemoveFS refuses to delete one path.
type failingRemoveFS struct {
	types.FS
	deny string
}

func (f *failingRemoveFS) Remove(name string) error {
	if name == f.deny {
		return stderrors.New("permission denied")
	}
	return f.FS.Remove(name)
}

func TestApply_RemovalFailure(t *testing.T) {
	fsys := &failingRemoveFS{
		FS:   newProject(t, templateFiles),
		deny: filepath.Join(root, "config", "asgi.py"),
	}
	opts := allOn()
	opts.UseAsync = false

	_, err := Apply(fsys, root, Plan(opts), false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRemove))
	assert.True(t, exists(fsys, "config/asgi.py"))
}

func TestApply_DryRun(t *testing.T) {
	fsys := newProject(t, templateFiles)
	opts := allOn()
	opts.UseHeroku = false

	result, err := Apply(fsys, root, Plan(opts), true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Procfile", "bin"}, result.Removed)
	assert.True(t, exists(fsys, "Procfile"))
	assert.True(t, exists(fsys, "bin/post_compile"))
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("celery")
	require.True(t, ok)
	assert.True(t, f.Disabled(config.Options{}))
	assert.False(t, f.Disabled(config.Options{UseCelery: true}))

	_, ok = Lookup("graphql")
	assert.False(t, ok)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(slug)
	for _, f := range Catalog {
		assert.Contains(t, md, "## "+f.Name)
	}
	assert.Contains(t, md, "`compose/local/django/celery/`")
	assert.Contains(t, md, "`apps/shop/openapi-ts.config.ts` (if present)")
}
