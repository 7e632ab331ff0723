package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xb0or/Gemini-TTS/internal/config"
	"github.com/xb0or/Gemini-TTS/internal/core"
)

var errMockFetch = errors.New("mock fetch error")

// mockFetcher is a mock implementation of the VoiceFetcher interface.
type mockFetcher struct {
	voices     []core.VoiceEntry
	err        error
	calls      int
	lastAPIKey string
}

func (m *mockFetcher) FetchVoices(_ context.Context, apiKey string) ([]core.VoiceEntry, error) {
	m.calls++
	m.lastAPIKey = apiKey

	if m.err != nil {
		return nil, m.err
	}

	return m.voices, nil
}

func seedCatalog(t *testing.T, store *config.Store, voices []core.VoiceEntry, age time.Duration) {
	t.Helper()

	stamp := float64(time.Now().Add(-age).Unix())

	store.Update(func(cfg *config.Config) {
		cfg.Voices = voices
		cfg.VoicesCachedAt = &stamp
	})
}

func TestRefreshVoicesUsesFreshCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()

	cached := []core.VoiceEntry{{ID: "Cached", Label: "Cached"}}
	seedCatalog(t, store, cached, time.Hour)

	fetcher := &mockFetcher{voices: []core.VoiceEntry{{ID: "Remote", Label: "Remote"}}}

	voices := store.RefreshVoices(context.Background(), fetcher, false)

	assert.Equal(t, cached, voices)
	assert.Zero(t, fetcher.calls)
}

func TestRefreshVoicesForceBypassesCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) { cfg.APIKey = "key" })

	seedCatalog(t, store, []core.VoiceEntry{{ID: "Cached", Label: "Cached"}}, time.Hour)

	fetcher := &mockFetcher{voices: []core.VoiceEntry{{ID: "Remote", Label: "Remote"}}}

	voices := store.RefreshVoices(context.Background(), fetcher, true)

	require.Len(t, voices, 1)
	assert.Equal(t, "Remote", voices[0].ID)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "key", fetcher.lastAPIKey)
}

func TestRefreshVoicesStaleCacheRefetches(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) { cfg.APIKey = "key" })

	seedCatalog(t, store, []core.VoiceEntry{{ID: "Stale", Label: "Stale"}}, 25*time.Hour)

	fetcher := &mockFetcher{voices: []core.VoiceEntry{{ID: "Remote", Label: "Remote"}}}

	voices := store.RefreshVoices(context.Background(), fetcher, false)

	require.Len(t, voices, 1)
	assert.Equal(t, "Remote", voices[0].ID)

	// The fetch rewrote the cache stamp, so the next call is served
	// from cache.
	fetcher.calls = 0
	again := store.RefreshVoices(context.Background(), fetcher, false)
	assert.Equal(t, voices, again)
	assert.Zero(t, fetcher.calls)
}

func TestRefreshVoicesNoKeyKeepsCacheUntouched(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()

	cached := []core.VoiceEntry{{ID: "Cached", Label: "Cached"}}
	seedCatalog(t, store, cached, 25*time.Hour)

	before := store.Snapshot().VoicesCachedAt
	require.NotNil(t, before)

	fetcher := &mockFetcher{}

	voices := store.RefreshVoices(context.Background(), fetcher, false)

	assert.Equal(t, cached, voices)
	assert.Zero(t, fetcher.calls)

	after := store.Snapshot().VoicesCachedAt
	require.NotNil(t, after)
	assert.InEpsilon(t, *before, *after, 0.001)
}

func TestRefreshVoicesNoKeySeedsEmptyCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) {
		cfg.Voices = nil
		cfg.VoicesCachedAt = nil
	})

	voices := store.RefreshVoices(context.Background(), &mockFetcher{}, false)

	assert.Len(t, voices, 30)
	assert.NotNil(t, store.Snapshot().VoicesCachedAt)
}

func TestRefreshVoicesFetchFailureFallsBackToCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) { cfg.APIKey = "key" })

	cached := []core.VoiceEntry{{ID: "Cached", Label: "Cached"}}
	seedCatalog(t, store, cached, 25*time.Hour)

	voices := store.RefreshVoices(context.Background(), &mockFetcher{err: errMockFetch}, false)

	assert.Equal(t, cached, voices)
}

func TestRefreshVoicesFetchFailureWithoutCacheUsesBuiltins(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) {
		cfg.APIKey = "key"
		cfg.Voices = nil
		cfg.VoicesCachedAt = nil
	})

	voices := store.RefreshVoices(context.Background(), &mockFetcher{err: errMockFetch}, false)

	assert.Len(t, voices, 30)
}

func TestRefreshVoicesEmptyResponseFallsBack(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	store.Load()
	store.Update(func(cfg *config.Config) { cfg.APIKey = "key" })

	cached := []core.VoiceEntry{{ID: "Cached", Label: "Cached"}}
	seedCatalog(t, store, cached, 25*time.Hour)

	before := store.Snapshot().VoicesCachedAt

	voices := store.RefreshVoices(context.Background(), &mockFetcher{}, false)

	assert.Equal(t, cached, voices)

	// An attempt that ran to completion still rewrites the stamp.
	after := store.Snapshot().VoicesCachedAt
	require.NotNil(t, after)
	assert.GreaterOrEqual(t, *after, *before)
}
