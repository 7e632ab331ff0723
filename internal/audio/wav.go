// Package audio persists raw PCM payloads as WAV files in the format the
// Gemini speech API produces: mono, 16-bit, 24 kHz.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xb0or/Gemini-TTS/internal/fileutil"
)

// WAV container parameters.
const (
	DefaultSampleRate = 24000
	numChannels       = 1
	bitsPerSample     = 16
	headerSize        = 44
	fmtChunkSize      = 16
	pcmFormat         = 1
	filePermissions   = 0o600
)

// Playback speed bounds; speed scales the sample rate.
const (
	minSpeed = 0.5
	maxSpeed = 2.0
)

// ErrInvalidSampleRate is returned for non-positive sample rates.
var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// SampleRateForSpeed scales the default sample rate by a playback speed
// clamped to [0.5, 2.0]. Non-positive speeds mean normal rate.
func SampleRateForSpeed(speed float64) int {
	if speed <= 0 {
		speed = 1.0
	}

	if speed < minSpeed {
		speed = minSpeed
	}

	if speed > maxSpeed {
		speed = maxSpeed
	}

	return int(DefaultSampleRate * speed)
}

// WriteWAV writes pcm to path inside a RIFF/WAV container, creating parent
// directories as needed.
func WriteWAV(path string, pcm []byte, sampleRate int) error {
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	err := fileutil.EnsureDir(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	data := encodeWAV(pcm, sampleRate)

	err = os.WriteFile(path, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write audio file %s: %w", path, err)
	}

	return nil
}

func encodeWAV(pcm []byte, sampleRate int) []byte {
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))

	buf.WriteString("RIFF")
	writeUint32(buf, uint32(headerSize-8+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeUint32(buf, fmtChunkSize)
	writeUint16(buf, pcmFormat)
	writeUint16(buf, numChannels)
	writeUint32(buf, uint32(sampleRate))
	writeUint32(buf, uint32(byteRate))
	writeUint16(buf, uint16(blockAlign))
	writeUint16(buf, bitsPerSample)

	buf.WriteString("data")
	writeUint32(buf, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, value uint32) {
	var scratch [4]byte

	binary.LittleEndian.PutUint32(scratch[:], value)
	buf.Write(scratch[:])
}

func writeUint16(buf *bytes.Buffer, value uint16) {
	var scratch [2]byte

	binary.LittleEndian.PutUint16(scratch[:], value)
	buf.Write(scratch[:])
}
