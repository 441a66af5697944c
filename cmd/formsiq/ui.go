package main

import (
	"time"

	"github.com/Veraticus/formsiq/internal/server"
	"github.com/Veraticus/formsiq/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive transcript extractor",
		Long: `Open a terminal UI with a transcript editor and a results pane.

Extraction runs in-process by default. With --server the UI posts transcripts
to a running "formsiq serve" instead.`,
		Args: cobra.NoArgs,
		RunE: runUI,
	}

	cmd.Flags().String("server", "", "Base URL of a running formsiq server (e.g. http://localhost:8000)")

	_ = viper.BindPFlag("ui.server", cmd.Flags().Lookup("server"))

	return cmd
}

func runUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var extractor tui.Extractor
	if url := viper.GetString("ui.server"); url != "" {
		// Leave headroom over the server's own LLM timeout.
		extractor = server.NewClient(url, cfg.LLM.Timeout+5*time.Second)
	} else {
		local, err := createExtractor(cfg)
		if err != nil {
			return err
		}
		extractor = tui.Local(local)
	}

	return tui.Run(cmd.Context(), extractor)
}
