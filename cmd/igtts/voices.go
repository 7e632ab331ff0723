package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xb0or/Gemini-TTS/internal/gemini"
)

func newVoicesCmd(application *app) *cobra.Command {
	var refresh bool

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "List available voices, refreshing the cache when stale",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := gemini.NewVoiceCatalog("", application.log)

			voices := application.store.RefreshVoices(cmd.Context(), catalog, refresh)
			application.cfg = application.store.Snapshot()

			for _, voice := range voices {
				fmt.Printf("%-16s %s\n", voice.ID, voice.Label)
			}

			return nil
		},
	}

	voicesCmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cache and fetch again")

	return voicesCmd
}
