package config

import (
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# postgen answers file.
# Values here override the built-in defaults and are overridden by
# POSTGEN_* environment variables and --set flags.
`

// GenerateConfigContent renders cfg as a postgen.toml answers file. With
// commented set every assignment is commented out so the file documents
// the defaults without pinning them.
func GenerateConfigContent(cfg *Config, commented bool) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}

	content := string(data)
	if commented {
		content = commentOutConfigValues(content)
	}
	return generatedHeader + "\n" + content, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Section headers stay live so uncommenting a value puts it in the right table
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
