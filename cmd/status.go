package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, reg, cleanup, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Printf("Knowledge base: %s\n", engine.Status())

		docs, err := reg.List(context.Background())
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents ingested yet.")
			return nil
		}

		fmt.Printf("Documents (%d):\n", len(docs))
		for _, d := range docs {
			fmt.Printf("  %s  %-8s %4d chunks  %s\n",
				d.IngestedAt.Format("2006-01-02 15:04"), d.Status, d.ChunkCount, d.Filename)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
