package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xb0or/Gemini-TTS/internal/config"
)

var (
	errUnknownSetting = errors.New("unknown setting")
	errBadBool        = errors.New("value must be true or false")
	errBadDelay       = errors.New("value must be a non-negative number of seconds")
)

func newConfigCmd(application *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the stored configuration",
	}

	configCmd.AddCommand(newConfigShowCmd(application))
	configCmd.AddCommand(newConfigSetCmd(application))

	return configCmd
}

func newConfigShowCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			snapshot := application.store.Snapshot()
			snapshot.APIKey = maskSecret(snapshot.APIKey)

			rendered, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}

			fmt.Println(string(rendered))

			return nil
		},
	}
}

func maskSecret(secret string) string {
	const visibleTail = 4

	if len(secret) <= visibleTail {
		return strings.Repeat("*", len(secret))
	}

	return strings.Repeat("*", len(secret)-visibleTail) + secret[len(secret)-visibleTail:]
}

func newConfigSetCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and persist it",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			mutate, err := settingMutator(key, value)
			if err != nil {
				return err
			}

			application.cfg = application.store.Update(mutate)

			fmt.Printf("%s updated\n", key)

			return nil
		},
	}
}

// settingMutator maps a key to the config field it mutates. Unknown keys are
// rejected so typos never land silently in config.json.
func settingMutator(key, value string) (func(*config.Config), error) {
	switch key {
	case "api_key":
		return func(c *config.Config) { c.APIKey = value }, nil
	case "base_url":
		return func(c *config.Config) { c.BaseURL = value }, nil
	case "model":
		return func(c *config.Config) { c.Model = value }, nil
	case "default_voice":
		return func(c *config.Config) { c.DefaultVoice = value }, nil
	case "default_output":
		return func(c *config.Config) { c.DefaultOutput = value }, nil
	case "input_text_path":
		return func(c *config.Config) { c.InputTextPath = value }, nil
	case "log_file":
		return func(c *config.Config) { c.LogFile = value }, nil
	case "batch_tasks_path":
		return func(c *config.Config) { c.BatchTasksPath = value }, nil
	case "debug_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errBadBool
		}

		return func(c *config.Config) { c.DebugEnabled = enabled }, nil
	case "multi_delay_seconds":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds < 0 {
			return nil, errBadDelay
		}

		return func(c *config.Config) { c.MultiDelaySeconds = seconds }, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownSetting, key)
	}
}
