// Package markers replaces literal placeholder tokens left in rendered
// files by the template.
package markers

import (
	"os"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Markers the template leaves behind.
const (
	PostgresUser         = "!!!SET POSTGRES_USER!!!"
	PostgresPassword     = "!!!SET POSTGRES_PASSWORD!!!"
	DjangoSecretKey      = "!!!SET DJANGO_SECRET_KEY!!!"
	DjangoAdminURL       = "!!!SET DJANGO_ADMIN_URL!!!"
	CeleryFlowerUser     = "!!!SET CELERY_FLOWER_USER!!!"
	CeleryFlowerPassword = "!!!SET CELERY_FLOWER_PASSWORD!!!"
	Prefix               = "!!!SET "
)

// Set replaces every occurrence of marker in path with value and writes the
// file back in place. A missing marker means the template and the
// customizer disagree, so it is an error rather than a no-op.
func Set(fsys types.FS, path, marker, value string) error {
	logger := logging.GetLogger("markers")

	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "cannot set %s", marker).
				WithDetail("path", path)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}

	content := string(data)
	count := strings.Count(content, marker)
	if count == 0 {
		return errors.Newf(errors.ErrMarkerNotFound, "marker %s not found in %s", marker, path).
			WithDetail("path", path).
			WithDetail("marker", marker)
	}

	content = strings.ReplaceAll(content, marker, value)
	if err := fsys.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}

	logger.Debug().
		Str("path", path).
		Str("marker", marker).
		Int("occurrences", count).
		Msg("Marker set")
	return nil
}

// Remaining lists the distinct markers still present in content.
func Remaining(content string) []string {
	var found []string
	seen := map[string]bool{}
	rest := content
	for {
		i := strings.Index(rest, Prefix)
		if i < 0 {
			return found
		}
		rest = rest[i:]
		end := strings.Index(rest[len(Prefix):], "!!!")
		if end < 0 {
			return found
		}
		marker := rest[:len(Prefix)+end+3]
		if !seen[marker] {
			seen[marker] = true
			found = append(found, marker)
		}
		rest = rest[len(marker):]
	}
}
