package testutil

import (
	"strings"

	"github.com/arthur-debert/postgen/pkg/markers"
)

// EnvExample renders .env.example the way the template does: the Flower
// variables only exist when Celery is enabled.
func EnvExample(celery bool) string {
	lines := []string{
		"# General",
		"DJANGO_READ_DOT_ENV_FILE=True",
		"DJANGO_SECRET_KEY=" + markers.DjangoSecretKey,
		"DJANGO_ADMIN_URL=" + markers.DjangoAdminURL,
		"",
		"# PostgreSQL",
		"POSTGRES_HOST=postgres",
		"POSTGRES_USER=" + markers.PostgresUser,
		"POSTGRES_PASSWORD=" + markers.PostgresPassword,
	}
	if celery {
		lines = append(lines,
			"",
			"# Flower",
			"CELERY_FLOWER_USER="+markers.CeleryFlowerUser,
			"CELERY_FLOWER_PASSWORD="+markers.CeleryFlowerPassword,
		)
	}
	return strings.Join(lines, "\n") + "\n"
}

// ProjectTree is a trimmed rendering of the template for slug with every
// optional feature's files present.
func ProjectTree(slug string, celery bool) FileTree {
	settings := "SECRET_KEY = env(\"DJANGO_SECRET_KEY\", default=\"" + markers.DjangoSecretKey + "\")\n"

	tree := FileTree{
		".env.example":             EnvExample(celery),
		".gitignore":               "*.pyc\n",
		"README.md":                "# " + slug + "\n",
		"config/settings/base.py":  "DEBUG = False\n",
		"config/settings/local.py": settings,
		"config/settings/test.py":  settings,
		"config/urls.py":           "",

		"CONTRIBUTORS.txt":     "",
		"LICENSE":              "",
		"COPYING":              "",
		"Procfile":             "",
		"bin/post_compile":     "",
		"config/celery_app.py": "",
		"config/api_router.py": "",
		"config/asgi.py":       "",
		"config/websocket.py":  "",

		"compose/local/django/Dockerfile":               "",
		"compose/local/django/celery/worker/start":      "",
		"compose/local/django/celery/beat/start":        "",
		"compose/production/django/celery/worker/start": "",

		"requirements/production.txt":    "django\n",
		"requirements/local.txt":         "pytest\n",
		"docker/local/uv/Dockerfile":     "FROM python\n",
		"docker/local/django/Dockerfile": "FROM python\n",
	}

	tree["apps/"+slug+"/openapi-ts.config.ts"] = ""

	for _, rel := range []string{
		"users/models.py",
		"users/managers.py",
		"users/tasks.py",
		"users/api/views.py",
		"users/api/serializers.py",
		"users/tests/test_models.py",
		"users/tests/test_managers.py",
		"users/tests/test_tasks.py",
		"users/tests/api/test_views.py",
	} {
		tree[slug+"/"+rel] = ""
	}
	return tree
}
