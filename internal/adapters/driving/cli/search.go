package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

var (
	searchProduct string
	searchVersion string
	searchFrom    string
	searchTo      string
	searchLimit   int
	searchOffset  int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the local release-notes replica",
	Long: `Searches the locally synced release-notes documents.
Free-text queries match titles and descriptions; filters narrow by
product, version and effective date. Results are newest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchProduct, "product", "", "exact product label filter")
	searchCmd.Flags().StringVar(&searchVersion, "version", "", "version substring filter")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest effective date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest effective date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filter := domain.SearchFilter{
		Product: searchProduct,
		Version: searchVersion,
		Limit:   searchLimit,
		Offset:  searchOffset,
	}
	if len(args) > 0 {
		filter.Query = args[0]
	}

	var err error
	if filter.DateFrom, err = parseDateFlag("from", searchFrom); err != nil {
		return err
	}
	if filter.DateTo, err = parseDateFlag("to", searchTo); err != nil {
		return err
	}

	results, err := searchService.Search(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, value)
	}
	return &t, nil
}

func outputSearchJSON(cmd *cobra.Command, results *domain.SearchResults) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results *domain.SearchResults) error {
	if len(results.Documents) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d):\n", len(results.Documents), results.TotalCount)
	cmd.Println()
	for i := range results.Documents {
		doc := &results.Documents[i]

		title := doc.Title
		if title == "" {
			title = doc.Path
		}

		cmd.Printf("  [%d] %s\n", searchOffset+i+1, title)
		if doc.Product != "" {
			line := doc.Product
			if doc.Version != "" {
				line += " " + doc.Version
			}
			cmd.Printf("      %s\n", line)
		}
		if d := doc.EffectiveDate(); d != nil {
			cmd.Printf("      %s (%s)\n", d.Format("2006-01-02"), freshnessPolicy.Classify(doc))
		}
		if doc.Description != "" {
			cmd.Printf("      %s\n", doc.Description)
		}
		cmd.Printf("      %s\n", doc.Path)
		cmd.Println()
	}

	return nil
}
