package batch_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xb0or/Gemini-TTS/internal/batch"
)

func TestPlanAutoNamesOverAcceptedJobs(t *testing.T) {
	t.Parallel()

	rows := []batch.TaskEntry{
		{Text: "first"},
		{Text: "   "},
		{Text: "second"},
		{Text: "third"},
	}

	jobs, err := batch.Plan(rows, "Zephyr", filepath.Join("audio", "out.wav"))
	require.NoError(t, err)

	require.Len(t, jobs, 3)
	assert.Equal(t, filepath.Join("audio", "out_001.wav"), jobs[0].Output)
	assert.Equal(t, filepath.Join("audio", "out_002.wav"), jobs[1].Output)
	assert.Equal(t, filepath.Join("audio", "out_003.wav"), jobs[2].Output)
}

func TestPlanKeepsExplicitOutputs(t *testing.T) {
	t.Parallel()

	rows := []batch.TaskEntry{
		{Text: "a", Output: "custom.wav"},
		{Text: "b"},
	}

	jobs, err := batch.Plan(rows, "Zephyr", "out.wav")
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "custom.wav", jobs[0].Output)
	assert.Equal(t, "out_002.wav", jobs[1].Output)
}

func TestPlanVoiceFallback(t *testing.T) {
	t.Parallel()

	rows := []batch.TaskEntry{
		{Text: "a", Voice: "Puck"},
		{Text: "b"},
	}

	jobs, err := batch.Plan(rows, "Zephyr", "out.wav")
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "Puck", jobs[0].Voice)
	assert.Equal(t, "Zephyr", jobs[1].Voice)
}

func TestPlanFailsWhenNoVoiceResolvable(t *testing.T) {
	t.Parallel()

	rows := []batch.TaskEntry{
		{Text: "a", Voice: "Puck"},
		{Text: "b"},
	}

	jobs, err := batch.Plan(rows, "", "out.wav")

	require.Error(t, err)
	assert.Nil(t, jobs)

	var validationErr *batch.ValidationError

	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 2, validationErr.Row)
}

func TestPlanReportsOriginalRowIndex(t *testing.T) {
	t.Parallel()

	rows := []batch.TaskEntry{
		{Text: ""},
		{Text: "needs a voice"},
	}

	_, err := batch.Plan(rows, "", "out.wav")

	var validationErr *batch.ValidationError

	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 2, validationErr.Row)
}

func TestPlanFallbackStemAndSuffix(t *testing.T) {
	t.Parallel()

	jobs, err := batch.Plan([]batch.TaskEntry{{Text: "a"}}, "Zephyr", "")
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, "output_001.wav", jobs[0].Output)
}

func TestPlanSuffixlessDefaultOutput(t *testing.T) {
	t.Parallel()

	jobs, err := batch.Plan([]batch.TaskEntry{{Text: "a"}}, "Zephyr", "speech")
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, "speech_001.wav", jobs[0].Output)
}

func TestPlanEmptyRows(t *testing.T) {
	t.Parallel()

	jobs, err := batch.Plan(nil, "Zephyr", "out.wav")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
