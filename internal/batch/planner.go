package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xb0or/Gemini-TTS/internal/fileutil"
)

// Auto-naming for rows without an output path: a zero-padded sequence number
// is inserted between the stem and suffix of the default output path.
const (
	autoNameFormat = "%s_%03d%s"
	fallbackStem   = "output"
	fallbackSuffix = ".wav"
)

// ValidationError reports a row that cannot be resolved into a job. Row is
// the 1-based position in the submitted row list.
type ValidationError struct {
	Row int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %d has no voice ID", e.Row)
}

// Plan expands raw rows into a fully-specified job list. Rows with empty text
// are intentionally blank slots and are skipped. A row with text but no
// resolvable voice (neither row-level nor fallback) fails the whole plan
// before any job runs. Auto-named outputs are numbered over accepted jobs in
// emission order, so skipped rows do not create gaps.
func Plan(rows []TaskEntry, fallbackVoice, defaultOutput string) ([]Job, error) {
	dir, stem, suffix := fileutil.SplitStemSuffix(defaultOutput)
	if stem == "" {
		stem = fallbackStem
	}

	if suffix == "" {
		suffix = fallbackSuffix
	}

	fallbackVoice = strings.TrimSpace(fallbackVoice)

	var jobs []Job

	for index, row := range rows {
		text := strings.TrimSpace(row.Text)
		if text == "" {
			continue
		}

		voice := strings.TrimSpace(row.Voice)
		if voice == "" {
			voice = fallbackVoice
		}

		if voice == "" {
			return nil, &ValidationError{Row: index + 1}
		}

		output := strings.TrimSpace(row.Output)
		if output == "" {
			name := fmt.Sprintf(autoNameFormat, stem, len(jobs)+1, suffix)
			output = filepath.Join(dir, name)
		}

		jobs = append(jobs, Job{Text: text, Voice: voice, Output: output})
	}

	return jobs, nil
}
