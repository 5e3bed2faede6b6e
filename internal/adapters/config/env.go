package config

import (
	"strconv"
	"time"

	"go.trai.ch/compass/internal/core/domain"
)

// Environment variables overriding the configuration file.
const (
	EnvToken           = "COMPASS_TOKEN"
	EnvTimeout         = "COMPASS_TIMEOUT"
	EnvRetryAttempts   = "COMPASS_RETRY_ATTEMPTS"
	EnvBatchSize       = "COMPASS_BATCH_SIZE"
	EnvCacheTTL        = "COMPASS_CACHE_TTL"
	EnvVersionsTTL     = "COMPASS_VERSIONS_TTL"
	EnvCachePath       = "COMPASS_CACHE_PATH"
	EnvMaxCacheEntries = "COMPASS_MAX_CACHE_ENTRIES"
	EnvDefaultInstance = "COMPASS_DEFAULT_INSTANCE"
	EnvAlwaysLatest    = "COMPASS_ALWAYS_LATEST"

	// EnvCIServerHost is set by GitLab CI and used when no default instance is configured explicitly.
	EnvCIServerHost = "CI_SERVER_FQDN"
)

// applyEnv layers COMPASS_* variables over cfg. COMPASS_TOKEN is bound to the
// default instance after the instance itself has been resolved.
func applyEnv(cfg *domain.Config, getenv func(string) string) error {
	if v := getenv(EnvDefaultInstance); v != "" {
		cfg.DefaultInstance = v
	} else if v := getenv(EnvCIServerHost); v != "" && cfg.DefaultInstance == domain.DefaultConfig().DefaultInstance {
		cfg.DefaultInstance = v
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{EnvTimeout, &cfg.Timeout},
		{EnvCacheTTL, &cfg.CacheTTL},
		{EnvVersionsTTL, &cfg.VersionsTTL},
	}
	for _, d := range durations {
		raw := getenv(d.env)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return &domain.ConfigurationError{MissingField: d.env, Reason: err.Error()}
		}
		*d.dst = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{EnvRetryAttempts, &cfg.RetryAttempts},
		{EnvBatchSize, &cfg.BatchSize},
		{EnvMaxCacheEntries, &cfg.MaxCacheEntries},
	}
	for _, i := range ints {
		raw := getenv(i.env)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return &domain.ConfigurationError{MissingField: i.env, Reason: "not an integer"}
		}
		*i.dst = v
	}

	if raw := getenv(EnvAlwaysLatest); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return &domain.ConfigurationError{MissingField: EnvAlwaysLatest, Reason: "not a boolean"}
		}
		cfg.AlwaysLatest = v
	}

	if v := getenv(EnvCachePath); v != "" {
		cfg.CachePath = v
	}
	if v := getenv(EnvToken); v != "" {
		cfg.Tokens[cfg.DefaultInstance] = v
	}
	return nil
}
