// Package config provides the mutable runtime configuration record for the
// Gemini TTS toolkit: schema normalization, fixed-path JSON persistence with
// silent repair, and the voice-catalog cache freshness policy.
package config

import (
	"github.com/xb0or/Gemini-TTS/internal/core"
)

// Version is the schema version stamped into every normalized record.
const Version = "1.4.5"

// Default values for the configuration record.
const (
	DefaultFilename = "config.json"
	DefaultModel    = "gemini-2.5-pro-preview-tts"
	DefaultBaseURL  = "https://generativelanguage.googleapis.com"
	DefaultVoiceID  = "Zephyr"
	DefaultOutput   = "output.wav"
	DefaultInput    = "input.txt"
	DefaultLogFile  = "log.log"
)

// Config is the runtime configuration record. Its json tags are exactly the
// known-key set of the persisted file; unknown keys are dropped on load.
type Config struct {
	APIKey            string            `json:"api_key"`
	BaseURL           string            `json:"base_url"`
	Model             string            `json:"model"`
	DefaultVoice      string            `json:"default_voice"`
	DefaultOutput     string            `json:"default_output"`
	InputTextPath     string            `json:"input_text_path"`
	Voices            []core.VoiceEntry `json:"voices"`
	VoicesCachedAt    *float64          `json:"voices_cached_at"`
	DebugEnabled      bool              `json:"debug_enabled"`
	LogFile           string            `json:"log_file"`
	BatchTasksPath    string            `json:"batch_tasks_path"`
	MultiDelaySeconds float64           `json:"multi_delay_seconds"`
	Version           string            `json:"version"`
}

// defaultVoiceData is the built-in voice catalog, used whenever no usable
// cached or fetched catalog is available.
var defaultVoiceData = []core.VoiceEntry{
	{ID: "Zephyr", Label: "Zephyr (明亮)"},
	{ID: "Puck", Label: "Puck (欢快)"},
	{ID: "Charon", Label: "Charon (信息丰富)"},
	{ID: "Kore", Label: "Kore (坚定)"},
	{ID: "Fenrir", Label: "Fenrir (易激动)"},
	{ID: "Leda", Label: "Leda (年轻)"},
	{ID: "Orus", Label: "Orus (坚定)"},
	{ID: "Aoede", Label: "Aoede (轻松)"},
	{ID: "Callirrhoe", Label: "Callirrhoe (随和)"},
	{ID: "Autonoe", Label: "Autonoe (明亮)"},
	{ID: "Enceladus", Label: "Enceladus (呼吸感)"},
	{ID: "Iapetus", Label: "Iapetus (清晰)"},
	{ID: "Umbriel", Label: "Umbriel (随和)"},
	{ID: "Algieba", Label: "Algieba (平滑)"},
	{ID: "Despina", Label: "Despina (平滑)"},
	{ID: "Erinome", Label: "Erinome (清晰)"},
	{ID: "Algenib", Label: "Algenib (沙哑)"},
	{ID: "Rasalgethi", Label: "Rasalgethi (信息丰富)"},
	{ID: "Laomedeia", Label: "Laomedeia (欢快)"},
	{ID: "Achernar", Label: "Achernar (轻柔)"},
	{ID: "Alnilam", Label: "Alnilam (坚定)"},
	{ID: "Schedar", Label: "Schedar (平稳)"},
	{ID: "Gacrux", Label: "Gacrux (成熟)"},
	{ID: "Pulcherrima", Label: "Pulcherrima (向前)"},
	{ID: "Achird", Label: "Achird (友好)"},
	{ID: "Zubenelgenubi", Label: "Zubenelgenubi (休闲)"},
	{ID: "Vindemiatrix", Label: "Vindemiatrix (温柔)"},
	{ID: "Sadachbia", Label: "Sadachbia (活泼)"},
	{ID: "Sadaltager", Label: "Sadaltager (博学)"},
	{ID: "Sulafat", Label: "Sulafat (温暖)"},
}

// DefaultVoices returns a fresh copy of the built-in voice catalog.
func DefaultVoices() []core.VoiceEntry {
	voices := make([]core.VoiceEntry, len(defaultVoiceData))
	copy(voices, defaultVoiceData)

	return voices
}

// Default returns a fresh default configuration record.
func Default() Config {
	return Config{
		APIKey:            "",
		BaseURL:           DefaultBaseURL,
		Model:             DefaultModel,
		DefaultVoice:      DefaultVoiceID,
		DefaultOutput:     DefaultOutput,
		InputTextPath:     DefaultInput,
		Voices:            DefaultVoices(),
		VoicesCachedAt:    nil,
		DebugEnabled:      false,
		LogFile:           DefaultLogFile,
		BatchTasksPath:    "",
		MultiDelaySeconds: 0,
		Version:           Version,
	}
}

// Clone returns a deep copy of the record, so batch runs can hold a snapshot
// that later settings edits cannot mutate.
func (c Config) Clone() Config {
	clone := c

	clone.Voices = make([]core.VoiceEntry, len(c.Voices))
	copy(clone.Voices, c.Voices)

	if c.VoicesCachedAt != nil {
		stamp := *c.VoicesCachedAt
		clone.VoicesCachedAt = &stamp
	}

	return clone
}
