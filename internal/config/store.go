package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/book-expert/logger"
	"github.com/caarlos0/env/v11"
)

// File permissions for the persisted record.
const filePermissions = 0o600

// Log messages.
const (
	logCorruptRestored = "Configuration file corrupted, restoring defaults: %v"
	logWriteFailed     = "Failed to write configuration to %s: %v"
	logEnvOverride     = "Environment override applied for %s"
)

// envOverrides are applied on top of the persisted record at load time.
// A nil pointer means the variable is unset.
type envOverrides struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	BaseURL string `env:"GEMINI_BASE_URL"`
	Debug   *bool  `env:"IGTTS_DEBUG"`
}

// Store owns the single in-process configuration record. All mutations go
// through its serialized update path and are persisted after every change.
type Store struct {
	path string
	log  *logger.Logger

	mu      sync.Mutex
	current Config
	loaded  bool
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:    path,
		log:     log,
		current: Default(),
	}
}

// SetLogger swaps the store's logger, used once the configured log file is
// known after the first load.
func (s *Store) SetLogger(log *logger.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = log
}

// Load reads the on-disk record. A missing or corrupt file silently
// regenerates and persists a fresh default record; corruption is logged,
// never surfaced. The result always passes through schema normalization and
// environment overrides.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.readDisk()
	s.applyEnvOverrides(&cfg)

	s.current = cfg
	s.loaded = true

	return cfg.Clone()
}

func (s *Store) readDisk() Config {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(logCorruptRestored, err)
		}

		defaults := Default()
		s.persist(defaults)

		return defaults
	}

	var raw map[string]any

	err = json.Unmarshal(data, &raw)
	if err != nil {
		s.log.Warn(logCorruptRestored, err)

		defaults := Default()
		s.persist(defaults)

		return defaults
	}

	return Normalize(raw)
}

func (s *Store) applyEnvOverrides(cfg *Config) {
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		s.log.Warn("Failed to parse environment overrides: %v", err)

		return
	}

	if overrides.APIKey != "" {
		cfg.APIKey = overrides.APIKey

		s.log.Info(logEnvOverride, "api_key")
	}

	if overrides.BaseURL != "" {
		cfg.BaseURL = overrides.BaseURL

		s.log.Info(logEnvOverride, "base_url")
	}

	if overrides.Debug != nil {
		cfg.DebugEnabled = *overrides.Debug
	}
}

// Save replaces the in-memory record and persists it. A write failure is
// logged, not raised: the in-memory record stays authoritative.
func (s *Store) Save(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.Version = Version
	s.current = cfg.Clone()
	s.loaded = true

	s.persist(s.current)
}

// Update applies a mutation under the store's lock and persists the result.
// It is the single serialized write path for settings edits.
func (s *Store) Update(mutate func(*Config)) Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked()

	mutate(&s.current)
	s.current.Version = Version

	s.persist(s.current)

	return s.current.Clone()
}

// Snapshot returns an immutable copy of the current record, suitable for
// handing to a batch run at submission time.
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked()

	return s.current.Clone()
}

// Path returns the location of the persisted record.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureLoadedLocked() {
	if s.loaded {
		return
	}

	cfg := s.readDisk()
	s.applyEnvOverrides(&cfg)

	s.current = cfg
	s.loaded = true
}

func (s *Store) persist(cfg Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		s.log.Warn(logWriteFailed, s.path, err)

		return
	}

	err = os.WriteFile(s.path, append(data, '\n'), filePermissions)
	if err != nil {
		s.log.Warn(logWriteFailed, s.path, err)
	}
}
