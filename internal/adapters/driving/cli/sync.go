package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

var (
	syncForce bool
	syncToken string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise release notes from the tracked repositories",
	Long: `Runs one incremental synchronisation against the configured
repositories. Only repositories whose branch tip moved are scanned, and
only files whose content changed are re-fetched. Use --force to bypass
the interval and change gates and re-fetch everything.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "bypass the interval and change gates")
	syncCmd.Flags().StringVar(&syncToken, "token", "", "credential overriding the configured token for this run")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Synchronising...")

	summary, err := syncService.Run(context.Background(), driving.RunOptions{
		Force:      syncForce,
		Credential: syncToken,
	})
	switch {
	case errors.Is(err, domain.ErrSyncNotDue):
		cmd.Println("Sync not due yet; use --force to run anyway.")
		return nil
	case errors.Is(err, domain.ErrSyncInProgress):
		cmd.Println("A sync is already in progress.")
		return nil
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("sync failed: %w; re-run after the quota resets", err)
	case err != nil:
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Synced %d document(s) and %d commit(s) in %s.\n",
		summary.DocumentCount, summary.CommitCount, summary.Duration.Round(time.Millisecond))
	for _, w := range summary.Warnings {
		cmd.Printf("  warning: %s\n", w)
	}
	for _, p := range summary.SkippedPaths {
		cmd.Printf("  skipped: %s\n", p)
	}

	return nil
}
