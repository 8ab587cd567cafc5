// Package cli implements the command-line adapter. Commands are thin: they
// parse flags, call the driving ports and format the result.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
)

// Services injected by the composition root before Execute.
var (
	searchService driving.SearchService
	syncService   driving.SyncService

	freshnessPolicy = domain.DefaultFreshnessPolicy

	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "Track what's new across product release-notes repositories",
	Long: `relnotes keeps a local, searchable replica of release-notes pages
published in GitHub documentation repositories. It syncs incrementally,
only fetching what actually changed, and answers queries offline.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices wires the driving ports into the commands.
func SetServices(search driving.SearchService, sync driving.SyncService) {
	searchService = search
	syncService = sync
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetFreshnessPolicy overrides the window used to classify documents as
// new or updated. A non-positive window keeps the default.
func SetFreshnessPolicy(p domain.FreshnessPolicy) {
	if p.NewWithinDays > 0 {
		freshnessPolicy = p
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
