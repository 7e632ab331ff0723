package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/xb0or/Gemini-TTS/internal/core"
)

// DefaultVoiceEndpoint is the public voice-catalog endpoint.
const DefaultVoiceEndpoint = "https://texttospeech.googleapis.com/v1/voices"

// DefaultVoiceTimeout bounds one catalog fetch.
const DefaultVoiceTimeout = 30 * time.Second

// VoiceCatalog fetches the selectable voice list from the remote catalog
// endpoint. It implements core.VoiceFetcher.
type VoiceCatalog struct {
	httpClient *http.Client
	endpoint   string
	log        *logger.Logger
}

// NewVoiceCatalog creates a catalog fetcher. An empty endpoint selects the
// public API; tests point it at a local server.
func NewVoiceCatalog(endpoint string, log *logger.Logger) *VoiceCatalog {
	if endpoint == "" {
		endpoint = DefaultVoiceEndpoint
	}

	return &VoiceCatalog{
		httpClient: &http.Client{Timeout: DefaultVoiceTimeout},
		endpoint:   endpoint,
		log:        log,
	}
}

// catalogResponse is the wire shape of the voice listing.
type catalogResponse struct {
	Voices []struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		LanguageCodes []string `json:"languageCodes"`
	} `json:"voices"`
}

// FetchVoices retrieves and parses the remote catalog. Entries without a
// name are discarded; labels are derived with TranslateVoiceLabel.
func (v *VoiceCatalog) FetchVoices(ctx context.Context, apiKey string) ([]core.VoiceEntry, error) {
	endpoint := v.endpoint + "?key=" + url.QueryEscape(apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voice list request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice list request failed: %w", err)
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			v.log.Warn("Failed to close voice list response body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.Status, body)
	}

	var catalog catalogResponse

	err = json.Unmarshal(body, &catalog)
	if err != nil {
		return nil, fmt.Errorf("voice list response invalid JSON: %w", err)
	}

	var voices []core.VoiceEntry

	for _, item := range catalog.Voices {
		if item.Name == "" {
			continue
		}

		voices = append(voices, core.VoiceEntry{
			ID:    item.Name,
			Label: TranslateVoiceLabel(item.Name, item.Description, item.LanguageCodes),
		})
	}

	return voices, nil
}

// TranslateVoiceLabel builds a display label of the form
// "Name (description, lang-codes...)". Detail already contained in the voice
// ID is not repeated.
func TranslateVoiceLabel(voiceID, description string, languageCodes []string) string {
	var details []string

	if description != "" {
		details = append(details, description)
	}

	details = append(details, languageCodes...)

	kept := details[:0]

	for _, detail := range details {
		if detail != "" {
			kept = append(kept, detail)
		}
	}

	detailText := strings.TrimSpace(strings.Join(kept, ", "))
	if detailText == "" {
		return voiceID
	}

	if strings.Contains(strings.ToLower(voiceID), strings.ToLower(detailText)) {
		return voiceID
	}

	return fmt.Sprintf("%s (%s)", voiceID, detailText)
}
