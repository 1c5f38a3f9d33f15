package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/docchat/docchat/internal/rag"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [glob]...",
	Short: "Ingest documents into the knowledge base",
	Long: `Ingests the PDF and text files matching the given glob patterns
(doublestar syntax, e.g. "docs/**/*.pdf") into the vector index and
persists a snapshot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var paths []string
	seen := map[string]bool{}
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched")
	}

	engine, _, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// One document per batch so progress is visible and a failing file
	// only costs its own chunks.
	ctx := context.Background()
	totalChunks := 0
	failed := 0
	for _, path := range paths {
		result := engine.Ingest(ctx, []rag.SourceFile{{Name: filepath.Base(path), Path: path}})
		if result.Status != "ok" {
			failed++
			if verbose {
				fmt.Fprintf(os.Stderr, "\n%s: %s\n", path, result.Message)
			}
		} else {
			totalChunks += result.AddedChunks
		}
		bar.Add(1)
	}

	fmt.Printf("Ingested %d of %d files (%d chunks added)\n", len(paths)-failed, len(paths), totalChunks)
	if failed > 0 {
		fmt.Printf("%d files yielded no text; run with --verbose for details\n", failed)
	}
	return nil
}
