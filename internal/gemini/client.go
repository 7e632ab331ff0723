// Package gemini implements the synthesis and voice-catalog collaborators on
// top of the Gemini speech HTTP API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/xb0or/Gemini-TTS/internal/audio"
	"github.com/xb0or/Gemini-TTS/internal/core"
)

// API endpoints and headers.
const (
	generatePathFormat = "/v1beta/models/%s:generateContent"
	headerContentType  = "Content-Type"
	headerAPIKey       = "x-goog-api-key"
	contentTypeJSON    = "application/json"
)

// Defaults applied when options are left blank.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-pro-preview-tts"
	DefaultTimeout = 120 * time.Second
)

// Static errors.
var (
	// ErrAPIKeyMissing indicates no credential is configured.
	ErrAPIKeyMissing = errors.New("gemini API key missing, configure it first")
	// ErrEmptyText indicates the input text is empty.
	ErrEmptyText = errors.New("input text is empty")
	// ErrEmptyVoice indicates no voice ID was supplied.
	ErrEmptyVoice = errors.New("voice ID is empty")
	// ErrNoAudioContent indicates the response carried no PCM payload.
	ErrNoAudioContent = errors.New("gemini response did not include audio content")
)

// Log messages.
const (
	logSynthesisRequested = "Requesting speech synthesis: voice=%s -> %s"
	logAudioSaved         = "Audio saved to %s (%d bytes PCM)"
	errFmtServiceError    = "gemini API error (%s): %s"
	errFmtNonOKStatus     = "gemini API returned status %s: %s"
)

// Options configures a Client. Zero-valued fields pick the defaults above.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the Gemini generateContent endpoint in audio mode and writes
// the returned PCM payload as a WAV file. It implements core.Synthesizer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	log        *logger.Logger
}

// NewClient creates a synthesis client.
func NewClient(opts Options, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		model:      model,
		apiKey:     strings.TrimSpace(opts.APIKey),
		log:        log,
	}
}

// Request and response shapes for the generateContent call.

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// apiErrorResponse is the structured error body the API returns on failure.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Synthesize generates speech for the request and persists it as a WAV file
// at the requested output path.
func (c *Client) Synthesize(ctx context.Context, req core.SpeechRequest) error {
	err := validateRequest(req)
	if err != nil {
		return err
	}

	if c.apiKey == "" {
		return ErrAPIKeyMissing
	}

	c.log.Info(logSynthesisRequested, req.Voice, req.OutputPath)

	pcm, err := c.generateAudio(ctx, req.Text, req.Voice)
	if err != nil {
		return err
	}

	sampleRate := audio.SampleRateForSpeed(req.Speed)

	err = audio.WriteWAV(req.OutputPath, pcm, sampleRate)
	if err != nil {
		return err
	}

	c.log.Info(logAudioSaved, req.OutputPath, len(pcm))

	return nil
}

func validateRequest(req core.SpeechRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrEmptyText
	}

	if strings.TrimSpace(req.Voice) == "" {
		return ErrEmptyVoice
	}

	return nil
}

func (c *Client) generateAudio(ctx context.Context, text, voice string) ([]byte, error) {
	payload := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: text}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := c.baseURL + fmt.Sprintf(generatePathFormat, c.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			c.log.Warn("Failed to close response body: %v", closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.Status, respBody)
	}

	return extractPCM(respBody)
}

// decodeAPIError prefers the structured error body, falling back to the raw
// response when the body is not in the documented shape.
func decodeAPIError(status string, body []byte) error {
	var apiErr apiErrorResponse

	err := json.Unmarshal(body, &apiErr)
	if err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf(errFmtServiceError, apiErr.Error.Status, apiErr.Error.Message)
	}

	return fmt.Errorf(errFmtNonOKStatus, status, string(body))
}

// extractPCM pulls the first inline audio payload out of the response.
func extractPCM(body []byte) ([]byte, error) {
	var resp generateResponse

	err := json.Unmarshal(body, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse synthesis response: %w", err)
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, ErrNoAudioContent
}
