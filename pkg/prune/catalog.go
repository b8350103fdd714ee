package prune

import (
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Feature is an optional part of the template. When Disabled reports true
// for the resolved options, the files listed by Operations are removed.
type Feature struct {
	Name string
	// Condition describes Disabled for humans.
	Condition  string
	Disabled   func(config.Options) bool
	Operations func(slug string) []types.Operation
}

// Catalog lists every optional feature of the template.
var Catalog = []Feature{
	{
		Name:      "open-source",
		Condition: `open_source_license == "Not open source"`,
		Disabled: func(o config.Options) bool {
			return o.OpenSourceLicense == config.LicenseNotOpenSource
		},
		Operations: func(string) []types.Operation {
			return []types.Operation{
				types.DeleteFile("CONTRIBUTORS.txt"),
				types.DeleteFile("LICENSE"),
			}
		},
	},
	{
		Name:      "gplv3",
		Condition: `open_source_license != "GPLv3"`,
		Disabled: func(o config.Options) bool {
			return o.OpenSourceLicense != config.LicenseGPLv3
		},
		Operations: func(string) []types.Operation {
			return []types.Operation{types.DeleteFile("COPYING")}
		},
	},
	{
		Name:      "custom-user-manager",
		Condition: `username_type == "username"`,
		Disabled: func(o config.Options) bool {
			return o.UsernameType == config.UsernameTypeUsername
		},
		Operations: func(slug string) []types.Operation {
			users := filepath.Join(slug, "users")
			return []types.Operation{
				types.DeleteFile(filepath.Join(users, "managers.py")),
				types.DeleteFile(filepath.Join(users, "tests", "test_managers.py")),
			}
		},
	},
	{
		Name:      "celery",
		Condition: "use_celery is off",
		Disabled:  func(o config.Options) bool { return !o.UseCelery },
		Operations: func(slug string) []types.Operation {
			users := filepath.Join(slug, "users")
			return []types.Operation{
				types.DeleteFile(filepath.Join("config", "celery_app.py")),
				types.DeleteFile(filepath.Join(users, "tasks.py")),
				types.DeleteFile(filepath.Join(users, "tests", "test_tasks.py")),
				types.DeleteDir(filepath.Join("compose", "local", "django", "celery")),
				types.DeleteDir(filepath.Join("compose", "production", "django", "celery")),
			}
		},
	},
	{
		Name:      "drf",
		Condition: "use_drf is off",
		Disabled:  func(o config.Options) bool { return !o.UseDRF },
		Operations: func(slug string) []types.Operation {
			users := filepath.Join(slug, "users")
			return []types.Operation{
				types.DeleteFile(filepath.Join("config", "api_router.py")),
				types.DeleteDir(filepath.Join(users, "api")),
				types.DeleteDir(filepath.Join(users, "tests", "api")),
				// only present when the template ships a frontend app
				types.DeleteFileIfExists(filepath.Join("apps", slug, "openapi-ts.config.ts")),
			}
		},
	},
	{
		Name:      "async",
		Condition: "use_async is off",
		Disabled:  func(o config.Options) bool { return !o.UseAsync },
		Operations: func(string) []types.Operation {
			return []types.Operation{
				types.DeleteFile(filepath.Join("config", "asgi.py")),
				types.DeleteFile(filepath.Join("config", "websocket.py")),
			}
		},
	},
	{
		Name:      "heroku",
		Condition: "use_heroku is off",
		Disabled:  func(o config.Options) bool { return !o.UseHeroku },
		Operations: func(string) []types.Operation {
			return []types.Operation{
				types.DeleteFile("Procfile"),
				types.DeleteDir("bin"),
			}
		},
	},
}

// Lookup returns the catalog entry called name.
func Lookup(name string) (Feature, bool) {
	for _, f := range Catalog {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
