package config

import (
	"context"
	"strings"
	"time"

	"github.com/xb0or/Gemini-TTS/internal/core"
)

// VoiceCacheTTL is how long a cached voice catalog counts as fresh.
const VoiceCacheTTL = 24 * time.Hour

// Log messages for catalog refreshes.
const (
	logFetchFailed   = "Failed to fetch voice list: %v"
	logCatalogEmpty  = "Voice list response empty, using fallback catalog"
	logCatalogCached = "Voice catalog refreshed: %d voices"
)

// RefreshVoices returns the voice catalog according to the freshness policy:
// the cached list verbatim while it is younger than VoiceCacheTTL (unless
// forced), otherwise a remote fetch through the collaborator. The fallback
// chain is remote, then cache, then built-ins; the caller never receives an
// empty catalog. Any fetch attempt that runs to completion rewrites the cache
// timestamp and persists.
func (s *Store) RefreshVoices(
	ctx context.Context,
	fetcher core.VoiceFetcher,
	forceRefresh bool,
) []core.VoiceEntry {
	cfg := s.Snapshot()
	cached := cfg.Voices

	if !forceRefresh && catalogFresh(cached, cfg.VoicesCachedAt) {
		return cached
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		// Without a credential there is nothing to fetch. Seed the cache
		// with the built-ins only when it is empty; a populated cache is
		// returned untouched, timestamp included.
		if len(cached) == 0 {
			return s.storeCatalog(DefaultVoices())
		}

		return cached
	}

	voices, err := fetcher.FetchVoices(ctx, apiKey)
	if err != nil {
		s.log.Warn(logFetchFailed, err)

		if len(cached) == 0 {
			return s.storeCatalog(DefaultVoices())
		}

		return cached
	}

	if len(voices) == 0 {
		s.log.Warn(logCatalogEmpty)

		voices = cached
		if len(voices) == 0 {
			voices = DefaultVoices()
		}
	}

	return s.storeCatalog(voices)
}

func catalogFresh(cached []core.VoiceEntry, cachedAt *float64) bool {
	if len(cached) == 0 || cachedAt == nil || *cachedAt == 0 {
		return false
	}

	age := time.Since(time.Unix(int64(*cachedAt), 0))

	return age < VoiceCacheTTL
}

// storeCatalog rewrites the cached catalog and its timestamp, persisting the
// record through the store's serialized update path.
func (s *Store) storeCatalog(voices []core.VoiceEntry) []core.VoiceEntry {
	now := float64(time.Now().Unix())

	s.Update(func(cfg *Config) {
		cfg.Voices = voices
		cfg.VoicesCachedAt = &now
	})

	s.log.Info(logCatalogCached, len(voices))

	return voices
}
