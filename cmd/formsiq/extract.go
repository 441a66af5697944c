package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/formsiq/internal/cli"
	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/config"
	"github.com/Veraticus/formsiq/internal/extraction"
	"github.com/Veraticus/formsiq/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [transcript-file]",
		Short: "Extract form fields from a transcript",
		Long: `Extract Form 1003 fields from a call transcript and print each field with its
confidence score. The transcript is read from the given file, from --text,
or from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("text", "t", "", "Transcript text (instead of a file or stdin)")
	cmd.Flags().String("format", "text", "Output format (text, plain, json)")

	_ = viper.BindPFlag("extract.format", cmd.Flags().Lookup("format"))

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	format := viper.GetString("extract.format")
	switch format {
	case "text", "plain", "json":
	default:
		return common.NewUserError(fmt.Sprintf("Unknown output format %q", format), common.ErrInvalidInput)
	}

	transcript, err := readTranscriptInput(cmd, args)
	if err != nil {
		return err
	}
	if err := extraction.ValidateTranscript(transcript); err != nil {
		return common.NewUserError("Please enter a transcript.", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	extractor, err := createExtractor(cfg)
	if err != nil {
		return err
	}

	fields := extractor.Extract(cmd.Context(), transcript)

	return writeFields(cmd, fields, format)
}

func readTranscriptInput(cmd *cobra.Command, args []string) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		return text, nil
	}

	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(config.ExpandPath(args[0]))
		if err != nil {
			return "", common.NewUserError("Could not read transcript file", err)
		}
		return string(data), nil
	}

	transcript, err := cli.ReadTranscript(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return transcript, nil
}

func writeFields(cmd *cobra.Command, fields []model.ExtractedField, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Fields []model.ExtractedField `json:"fields"`
		}{Fields: fields})
	case "plain":
		_, err := fmt.Fprintln(out, cli.FormatFields(fields))
		return err
	default:
		_, err := fmt.Fprintln(out, strings.TrimRight(cli.RenderFields(fields), "\n"))
		return err
	}
}
