package config

// Compassfile represents the structure of the compass.yaml configuration file.
// Durations use Go duration syntax ("10s", "24h"). Unset fields keep their defaults.
type Compassfile struct {
	Version         string            `yaml:"version"`
	Timeout         string            `yaml:"timeout"`
	Retry           RetryDTO          `yaml:"retry"`
	BatchSize       *int              `yaml:"batchSize"`
	Cache           CacheDTO          `yaml:"cache"`
	DefaultInstance string            `yaml:"defaultInstance"`
	Branches        BranchesDTO       `yaml:"branches"`
	AlwaysLatest    *bool             `yaml:"alwaysLatest"`
	Pinned          map[string]string `yaml:"pinned"`
	Tokens          map[string]string `yaml:"tokens"`
}

// RetryDTO configures the fetch retry policy.
type RetryDTO struct {
	Attempts  *int   `yaml:"attempts"`
	BaseDelay string `yaml:"baseDelay"`
}

// CacheDTO configures the component cache.
type CacheDTO struct {
	Path        string `yaml:"path"`
	TTL         string `yaml:"ttl"`
	VersionsTTL string `yaml:"versionsTTL"`
	MaxEntries  *int   `yaml:"maxEntries"`
}

// BranchesDTO names the branches preferred by default version selection.
type BranchesDTO struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}
