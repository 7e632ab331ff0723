// Package core defines the domain types and collaborator contracts shared by
// the configuration store, the batch engine, and the Gemini API client.
package core

import "context"

// VoiceEntry describes one selectable synthesis voice. ID is the wire value
// sent to the synthesis API; Label is advisory display text.
type VoiceEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SpeechRequest holds the parameters for a single synthesis call.
// A zero Speed means the synthesizer's default rate.
type SpeechRequest struct {
	Text       string
	Voice      string
	OutputPath string
	Speed      float64
}

// Synthesizer converts text to speech and persists the result as an audio
// file. Failures are opaque to callers beyond "this request failed".
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) error
}

// VoiceFetcher retrieves the remote voice catalog. Consumed only by the
// configuration store's cache refresh policy.
type VoiceFetcher interface {
	FetchVoices(ctx context.Context, apiKey string) ([]VoiceEntry, error)
}
