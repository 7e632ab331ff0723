package config

import (
	"strconv"
	"strings"

	"github.com/xb0or/Gemini-TTS/internal/core"
)

// Normalize merges a raw decoded JSON object over the default record,
// key by key. It is pure and total: unknown keys are dropped, and every
// malformed field degrades to its default without failing the whole record.
func Normalize(raw map[string]any) Config {
	merged := Default()
	if raw == nil {
		return merged
	}

	mergeString(raw, "api_key", &merged.APIKey)
	mergeString(raw, "base_url", &merged.BaseURL)
	mergeString(raw, "model", &merged.Model)
	mergeString(raw, "default_voice", &merged.DefaultVoice)
	mergeString(raw, "default_output", &merged.DefaultOutput)
	mergeString(raw, "input_text_path", &merged.InputTextPath)
	mergeString(raw, "log_file", &merged.LogFile)
	mergeString(raw, "batch_tasks_path", &merged.BatchTasksPath)

	if enabled, ok := raw["debug_enabled"].(bool); ok {
		merged.DebugEnabled = enabled
	}

	merged.Voices = normalizeVoices(raw["voices"])
	merged.VoicesCachedAt = normalizeCacheStamp(raw["voices_cached_at"])
	merged.MultiDelaySeconds = normalizeDelay(raw["multi_delay_seconds"])

	if merged.LogFile == "" {
		merged.LogFile = DefaultLogFile
	}

	merged.Version = Version

	return merged
}

func mergeString(raw map[string]any, key string, target *string) {
	if value, ok := raw[key].(string); ok {
		*target = value
	}
}

// normalizeVoices filters a raw voice list down to entries with a non-empty
// ID, defaulting each label to the ID. An empty or unusable result falls back
// to the built-in catalog.
func normalizeVoices(raw any) []core.VoiceEntry {
	items, ok := raw.([]any)
	if !ok {
		return DefaultVoices()
	}

	var voices []core.VoiceEntry

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		id, _ := entry["id"].(string)
		id = strings.TrimSpace(id)

		if id == "" {
			continue
		}

		label, _ := entry["label"].(string)
		label = strings.TrimSpace(label)

		if label == "" {
			label = id
		}

		voices = append(voices, core.VoiceEntry{ID: id, Label: label})
	}

	if len(voices) == 0 {
		return DefaultVoices()
	}

	return voices
}

// normalizeCacheStamp keeps the cache timestamp only when it is numeric.
func normalizeCacheStamp(raw any) *float64 {
	stamp, ok := asFloat(raw)
	if !ok {
		return nil
	}

	return &stamp
}

// normalizeDelay parses the inter-call delay as a non-negative float,
// resetting to zero on parse failure or a negative value.
func normalizeDelay(raw any) float64 {
	delay, ok := asFloat(raw)
	if !ok {
		if text, isString := raw.(string); isString {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return 0
			}

			delay = parsed
		} else {
			return 0
		}
	}

	if delay < 0 {
		return 0
	}

	return delay
}

func asFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}
