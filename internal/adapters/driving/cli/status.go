package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCommits int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status and store statistics",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusCommits, "commits", 5, "number of recent commits to list")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if syncService == nil || searchService == nil {
		return errors.New("services not configured")
	}

	ctx := context.Background()

	cp, err := syncService.Checkpoint(ctx)
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	cmd.Printf("Status: %s\n", cp.Status)
	if cp.LastSyncTime != nil {
		cmd.Printf("Last sync: %s (%s, %d documents)\n",
			cp.LastSyncTime.Local().Format(time.RFC1123),
			cp.LastDuration.Round(time.Millisecond), cp.RecordCount)
	} else {
		cmd.Println("Last sync: never")
	}
	if cp.LastError != "" {
		cmd.Printf("Last error: %s\n", cp.LastError)
	}

	stats, err := searchService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	cmd.Println()
	cmd.Printf("Documents: %d\n", stats.DocumentCount)
	cmd.Printf("Commits:   %d\n", stats.CommitCount)
	cmd.Printf("Sources:   %d\n", stats.RevisionCount)
	cmd.Printf("Store size: %.1f KiB\n", float64(stats.SizeBytes)/1024)

	if statusCommits > 0 {
		commits, err := searchService.RecentCommits(ctx, statusCommits)
		if err != nil {
			return fmt.Errorf("listing commits: %w", err)
		}
		if len(commits) > 0 {
			cmd.Println()
			cmd.Println("Recent changes:")
			for _, c := range commits {
				cmd.Printf("  %s  %s  %s\n", c.Date.Format("2006-01-02"), shortSHA(c.SHA), firstLine(c.Message))
			}
		}
	}

	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	for i := range s {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
