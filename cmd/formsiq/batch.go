package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/formsiq/internal/cli"
	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/config"
	"github.com/Veraticus/formsiq/internal/extraction"
	"github.com/Veraticus/formsiq/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file-or-directory>...",
		Short: "Extract form fields from many transcript files",
		Long: `Extract fields from every transcript file given, or found in the given
directories, and write one JSON result per transcript to the output directory.
Results are named after the transcript; transcripts sharing a name get -2, -3, ...
suffixes in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().StringP("out", "o", "formsiq-results", "Directory for JSON results")
	cmd.Flags().IntP("concurrency", "c", 4, "Transcripts extracted in parallel")
	cmd.Flags().String("ext", ".txt", "Transcript file extension when scanning directories")

	_ = viper.BindPFlag("batch.out", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("batch.concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("batch.ext", cmd.Flags().Lookup("ext"))

	return cmd
}

// batchResult is the JSON document written per transcript.
type batchResult struct {
	ExtractedAt time.Time              `json:"extracted_at"`
	RunID       string                 `json:"run_id"`
	Source      string                 `json:"source"`
	Fields      []model.ExtractedField `json:"fields"`
}

type batchStats struct {
	processed int
	empty     int
	skipped   int
	failed    int
	fields    int
}

func runBatch(cmd *cobra.Command, args []string) error {
	outDir := config.ExpandPath(viper.GetString("batch.out"))
	concurrency := max(viper.GetInt("batch.concurrency"), 1)

	files, err := collectTranscripts(args, viper.GetString("batch.ext"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewUserError("No transcript files found", common.ErrInvalidInput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := createExtractor(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.NewString()
	slog.Info("Starting batch extraction", "run_id", runID, "transcripts", len(files), "out", outDir)

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Results written so far are in "+outDir)

	progress := cli.NewBatchProgress(cmd.ErrOrStderr(), len(files))
	start := time.Now()

	var (
		mu    sync.Mutex
		stats batchStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	names := resultNames(files)

	for i, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			n, err := processTranscript(gctx, extractor, file, filepath.Join(outDir, names[i]), runID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stats.processed++
				stats.fields += n
				if n == 0 {
					stats.empty++
				}
			case errors.Is(err, common.ErrInvalidInput):
				stats.skipped++
				slog.Warn("Skipping empty transcript", "file", file)
			default:
				stats.failed++
				slog.Warn("Failed to process transcript", "file", file, "error", err)
			}
			progress.Describe(filepath.Base(file))
			progress.Increment()
			return nil
		})
	}

	waitErr := g.Wait()
	progress.Finish()

	summary := fmt.Sprintf("  • Run ID: %s\n", runID) +
		fmt.Sprintf("  • Transcripts processed: %d of %d\n", stats.processed, len(files)) +
		fmt.Sprintf("  • Fields extracted: %d\n", stats.fields) +
		fmt.Sprintf("  • Transcripts with no fields: %d\n", stats.empty) +
		fmt.Sprintf("  • Skipped (empty): %d\n", stats.skipped) +
		fmt.Sprintf("  • Failed: %d\n", stats.failed) +
		fmt.Sprintf("  • Time taken: %s\n", time.Since(start).Round(time.Millisecond)) +
		fmt.Sprintf("  • Results: %s", outDir)

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Batch Complete", summary)); err != nil {
		slog.Warn("Failed to write batch summary", "error", err)
	}

	if handler.WasInterrupted() {
		return common.NewUserError("Batch interrupted", context.Canceled)
	}
	return waitErr
}

// processTranscript extracts one file and writes its result to outPath,
// returning the number of fields found.
func processTranscript(ctx context.Context, extractor *extraction.Extractor, file, outPath, runID string) (int, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, fmt.Errorf("failed to read transcript: %w", err)
	}

	transcript := string(data)
	if err := extraction.ValidateTranscript(transcript); err != nil {
		return 0, err
	}

	result := batchResult{
		RunID:       runID,
		Source:      file,
		ExtractedAt: time.Now().UTC(),
		Fields:      extractor.Extract(ctx, transcript),
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(outPath, append(out, '\n'), 0o600); err != nil {
		return 0, fmt.Errorf("failed to write result: %w", err)
	}

	return len(result.Fields), nil
}

// resultNames assigns every transcript a distinct result file name. Files
// sharing a base name get -2, -3, ... suffixes in input order. Names are
// compared case-insensitively so results survive case-folding filesystems.
func resultNames(files []string) []string {
	names := make([]string, len(files))
	used := make(map[string]bool, len(files))

	for i, file := range files {
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		name := stem + ".json"
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d.json", stem, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}

// collectTranscripts expands args into transcript files. Directories are
// scanned one level deep for files ending in ext.
func collectTranscripts(args []string, ext string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		path := config.ExpandPath(arg)
		info, err := os.Stat(path)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Cannot read %s", arg), err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Cannot read directory %s", arg), err)
		}

		var found []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
				continue
			}
			found = append(found, filepath.Join(path, entry.Name()))
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}
