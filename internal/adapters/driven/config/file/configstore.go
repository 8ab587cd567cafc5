// Package file provides the TOML configuration store: tracked source
// repositories, sync tuning knobs and the optional GitHub credential.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// TokenEnvVar overrides the configured token when set.
const TokenEnvVar = "GITHUB_TOKEN"

// Sync tuning defaults.
const (
	DefaultMinInterval = time.Hour
	DefaultBackfillCap = 25
	DefaultFetchLimit  = 5
)

// Config is the full file configuration.
type Config struct {
	// Token is the GitHub credential. The GITHUB_TOKEN environment
	// variable takes precedence; an empty value means anonymous access.
	Token string `toml:"token"`

	// Sources are the tracked repositories.
	Sources []SourceConfig `toml:"sources"`

	// Sync tunes the synchroniser.
	Sync SyncConfig `toml:"sync"`
}

// SourceConfig is one [[sources]] block.
type SourceConfig struct {
	Owner      string `toml:"owner"`
	Repo       string `toml:"repo"`
	Branch     string `toml:"branch"`
	PathPrefix string `toml:"path_prefix"`
}

// SyncConfig is the [sync] block. Zero values fall back to defaults.
type SyncConfig struct {
	// MinIntervalMinutes is the minimum gap between unforced runs.
	MinIntervalMinutes int `toml:"min_interval_minutes"`

	// BackfillCap bounds first-observed date lookups per run.
	BackfillCap int `toml:"backfill_cap"`

	// FetchLimit bounds parallel document fetches.
	FetchLimit int `toml:"fetch_limit"`

	// FreshnessWindowDays is how long a document counts as new.
	FreshnessWindowDays int `toml:"freshness_window_days"`
}

// ConfigStore loads and persists the TOML configuration file.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.relnotes/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".relnotes")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads, validates and defaults the configuration. A missing file
// yields an empty valid config; the environment token always wins.
func (s *ConfigStore) Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, start empty
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if envToken := os.Getenv(TokenEnvVar); envToken != "" {
		cfg.Token = envToken
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save persists the configuration with restricted permissions; it can
// carry a credential.
func (s *ConfigStore) Save(cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// SourceRepositories converts the configured sources to domain values.
func (c *Config) SourceRepositories() []domain.SourceRepository {
	sources := make([]domain.SourceRepository, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, domain.SourceRepository{
			Owner:      s.Owner,
			Repo:       s.Repo,
			Branch:     s.Branch,
			PathPrefix: s.PathPrefix,
		})
	}
	return sources
}

// MinInterval returns the minimum gap between unforced runs.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Sync.MinIntervalMinutes) * time.Minute
}

func applyDefaults(cfg *Config) {
	for i := range cfg.Sources {
		if cfg.Sources[i].Branch == "" {
			cfg.Sources[i].Branch = "main"
		}
	}
	if cfg.Sync.MinIntervalMinutes <= 0 {
		cfg.Sync.MinIntervalMinutes = int(DefaultMinInterval / time.Minute)
	}
	if cfg.Sync.BackfillCap <= 0 {
		cfg.Sync.BackfillCap = DefaultBackfillCap
	}
	if cfg.Sync.FetchLimit <= 0 {
		cfg.Sync.FetchLimit = DefaultFetchLimit
	}
	if cfg.Sync.FreshnessWindowDays <= 0 {
		cfg.Sync.FreshnessWindowDays = domain.DefaultFreshnessPolicy.NewWithinDays
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		src := domain.SourceRepository{
			Owner:      s.Owner,
			Repo:       s.Repo,
			Branch:     s.Branch,
			PathPrefix: s.PathPrefix,
		}
		if err := src.Validate(); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if seen[src.Key()] {
			return fmt.Errorf("sources[%d]: duplicate source %s: %w",
				i, src.Key(), domain.ErrInvalidInput)
		}
		seen[src.Key()] = true
	}
	return nil
}
