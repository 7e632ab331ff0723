package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xb0or/Gemini-TTS/internal/batch"
	"github.com/xb0or/Gemini-TTS/internal/core"
	"github.com/xb0or/Gemini-TTS/internal/gemini"
)

// Static errors for input resolution.
var (
	errNoText  = errors.New("no input text: use --text, --input-file, or configure input_text_path")
	errNoVoice = errors.New("no voice ID: use --voice or configure default_voice")
)

// speedSynthesizer stamps a playback speed onto every request before handing
// it to the underlying synthesizer.
type speedSynthesizer struct {
	inner core.Synthesizer
	speed float64
}

func (s speedSynthesizer) Synthesize(ctx context.Context, req core.SpeechRequest) error {
	req.Speed = s.speed

	return s.inner.Synthesize(ctx, req)
}

func newSpeakCmd(application *app) *cobra.Command {
	var (
		text      string
		inputFile string
		voice     string
		output    string
		speed     float64
	)

	speakCmd := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize a single text to a WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := application.cfg

			resolvedText, err := resolveText(text, inputFile, cfg.InputTextPath)
			if err != nil {
				return err
			}

			resolvedVoice := strings.TrimSpace(voice)
			if resolvedVoice == "" {
				resolvedVoice = strings.TrimSpace(cfg.DefaultVoice)
			}

			if resolvedVoice == "" {
				return errNoVoice
			}

			resolvedOutput := strings.TrimSpace(output)
			if resolvedOutput == "" {
				resolvedOutput = cfg.DefaultOutput
			}

			var synth core.Synthesizer = gemini.NewClient(gemini.Options{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
			}, application.log)

			if speed != 0 {
				synth = speedSynthesizer{inner: synth, speed: speed}
			}

			job := batch.Job{
				Text:   resolvedText,
				Voice:  resolvedVoice,
				Output: resolvedOutput,
			}

			// The call runs on its own one-shot worker; the command
			// simply waits for the outcome.
			runner := batch.NewRunner(application.log)
			outcome := runner.StartSingle(cmd.Context(), job, synth).Wait()

			if outcome.Errors > 0 {
				return outcome.Results[0].Err
			}

			fmt.Printf("Audio saved to %s\n", resolvedOutput)

			return nil
		},
	}

	speakCmd.Flags().StringVar(&text, "text", "", "text to synthesize")
	speakCmd.Flags().StringVar(&inputFile, "input-file", "", "read the text from a file")
	speakCmd.Flags().StringVar(&voice, "voice", "", "voice ID (defaults to default_voice)")
	speakCmd.Flags().StringVar(&output, "output", "", "output WAV path (defaults to default_output)")
	speakCmd.Flags().Float64Var(&speed, "speed", 0, "playback speed, clamped to [0.5, 2.0]")

	return speakCmd
}

// resolveText picks the input text: the flag wins, then the named file, then
// the configured input file.
func resolveText(text, inputFile, configuredPath string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	path := strings.TrimSpace(inputFile)
	if path == "" {
		path = strings.TrimSpace(configuredPath)
	}

	if path == "" {
		return "", errNoText
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input text from %s: %w", path, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return "", errNoText
	}

	return string(data), nil
}
