package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show one document by its repository path",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the document as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	doc, err := searchService.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document at path %q", args[0])
		}
		return fmt.Errorf("show failed: %w", err)
	}

	if showJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	title := doc.Title
	if title == "" {
		title = doc.Path
	}
	cmd.Println(title)
	if doc.Description != "" {
		cmd.Println(doc.Description)
	}
	cmd.Println()
	cmd.Printf("  Path:      %s\n", doc.Path)
	cmd.Printf("  Source:    %s\n", doc.SourceKey)
	if doc.Product != "" {
		cmd.Printf("  Product:   %s\n", doc.Product)
	}
	if doc.Version != "" {
		cmd.Printf("  Version:   %s\n", doc.Version)
	}
	if doc.ReleaseDate != nil {
		cmd.Printf("  Released:  %s\n", doc.ReleaseDate.Format("2006-01-02"))
	}
	if doc.FirstSeen != nil {
		cmd.Printf("  First seen: %s\n", doc.FirstSeen.Format("2006-01-02"))
	}
	if doc.LastModified != nil {
		cmd.Printf("  Modified:  %s\n", doc.LastModified.Format("2006-01-02"))
	}
	cmd.Printf("  Freshness: %s\n", freshnessPolicy.Classify(doc))
	if doc.WebURL != "" {
		cmd.Printf("  URL:       %s\n", doc.WebURL)
	}

	return nil
}
