// Package config provides the configuration loader for compass.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedVersion is the only compass.yaml schema version.
const supportedVersion = "1"

// Loader implements ports.ConfigLoader. Values are layered: defaults, then the
// discovered compass.yaml, then COMPASS_* environment variables.
type Loader struct {
	Logger ports.Logger
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger reading the process environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load builds the configuration for a command run from cwd.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Config{}, err
	}

	if path != "" {
		l.Logger.Debug("using configuration " + path)

		var file Compassfile
		if err := readAndUnmarshalYAML(path, &file); err != nil {
			return domain.Config{}, zerr.With(err, "path", path)
		}
		if file.Version != "" && file.Version != supportedVersion {
			l.Logger.Warn("unsupported version " + file.Version + " in " + path + ", reading it as version " +
				supportedVersion)
		}
		if err := l.applyFile(&cfg, &file, filepath.Dir(path)); err != nil {
			return domain.Config{}, err
		}
	}

	if err := applyEnv(&cfg, l.getenv); err != nil {
		return domain.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// findConfiguration returns the explicit $COMPASS_CONFIG file, or the first compass.yaml
// found walking up from cwd. An empty path means no file exists.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	if explicit := l.getenv(domain.ConfigEnvVar); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", explicit)
		}
		return filepath.Clean(explicit), nil
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", candidate)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", nil
		}
		currentDir = parentDir
	}
}

func (l *Loader) applyFile(cfg *domain.Config, file *Compassfile, baseDir string) error {
	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"timeout", file.Timeout, &cfg.Timeout},
		{"retry.baseDelay", file.Retry.BaseDelay, &cfg.RetryBaseDelay},
		{"cache.ttl", file.Cache.TTL, &cfg.CacheTTL},
		{"cache.versionsTTL", file.Cache.VersionsTTL, &cfg.VersionsTTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return &domain.ConfigurationError{MissingField: d.field, Reason: err.Error()}
		}
		*d.dst = v
	}

	setInt(&cfg.RetryAttempts, file.Retry.Attempts)
	setInt(&cfg.BatchSize, file.BatchSize)
	setInt(&cfg.MaxCacheEntries, file.Cache.MaxEntries)
	setString(&cfg.DefaultInstance, file.DefaultInstance)
	setString(&cfg.PrimaryBranch, file.Branches.Primary)
	setString(&cfg.SecondaryBranch, file.Branches.Secondary)
	if file.AlwaysLatest != nil {
		cfg.AlwaysLatest = *file.AlwaysLatest
	}

	if file.Cache.Path != "" {
		cfg.CachePath = resolvePath(file.Cache.Path, baseDir)
	}

	for component, version := range file.Pinned {
		cfg.PinnedVersions[strings.TrimRight(component, "/")] = version
	}
	for instance, token := range file.Tokens {
		cfg.Tokens[instance] = os.Expand(token, l.getenv)
	}
	return nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// resolvePath expands a leading "~/" and anchors relative paths at baseDir.
func resolvePath(path, baseDir string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader or set explicitly by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
