// Package audio_test tests the WAV container writer.
package audio_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xb0or/Gemini-TTS/internal/audio"
)

func TestSampleRateForSpeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 24000, audio.SampleRateForSpeed(0))
	assert.Equal(t, 24000, audio.SampleRateForSpeed(1.0))
	assert.Equal(t, 36000, audio.SampleRateForSpeed(1.5))
	assert.Equal(t, 12000, audio.SampleRateForSpeed(0.1))
	assert.Equal(t, 48000, audio.SampleRateForSpeed(5.0))
	assert.Equal(t, 24000, audio.SampleRateForSpeed(-2.0))
}

func TestWriteWAVHeader(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	path := filepath.Join(t.TempDir(), "out.wav")

	require.NoError(t, audio.WriteWAV(path, pcm, 24000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 44+len(pcm))

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(data[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, pcm, data[44:])
}

func TestWriteWAVCreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.wav")

	require.NoError(t, audio.WriteWAV(path, []byte{0x00, 0x01}, 24000))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestWriteWAVRejectsBadSampleRate(t *testing.T) {
	t.Parallel()

	err := audio.WriteWAV(filepath.Join(t.TempDir(), "out.wav"), nil, 0)
	require.ErrorIs(t, err, audio.ErrInvalidSampleRate)
}

func TestWriteWAVEmptyPayload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.wav")

	require.NoError(t, audio.WriteWAV(path, nil, 24000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 44)
}
