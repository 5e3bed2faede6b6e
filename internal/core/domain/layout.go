package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the name of the per-user application directory.
	AppDirName = "compass"

	// CacheFileName is the name of the persisted component cache.
	CacheFileName = "components.json"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "compass.yaml"

	// ConfigEnvVar names the environment variable that points at an explicit config file.
	ConfigEnvVar = "COMPASS_CONFIG"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCacheDir returns the directory holding compass cache files.
// It falls back to a relative .compass directory when no user cache dir is available.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return "." + AppDirName
	}
	return filepath.Join(base, AppDirName)
}

// DefaultCachePath returns the default location of the persisted component cache.
func DefaultCachePath() string {
	return filepath.Join(DefaultCacheDir(), CacheFileName)
}
