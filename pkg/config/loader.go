package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/mempool/pkg/errors"
)

// Load reads a YAML file into cfg, expanding ${VAR} environment references
// before parsing. Failures carry ErrorTypeConfig so callers can classify them
// alongside Validate errors.
func Load(path string, cfg interface{}) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is an explicit CLI argument
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", path)
	}

	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), cfg); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse config file").
			WithDetail("path", path)
	}
	return nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg interface{}) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file").
			WithDetail("path", path)
	}
	return nil
}

// expandEnv replaces ${VAR} references with environment values. Unset
// variables expand to the empty string; a bare $ or an unterminated
// reference passes through untouched.
func expandEnv(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for {
		start := strings.Index(content, "${")
		if start < 0 {
			break
		}
		end := strings.Index(content[start+2:], "}")
		if end < 0 {
			break
		}
		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : start+2+end]))
		content = content[start+2+end+1:]
	}
	b.WriteString(content)
	return b.String()
}
