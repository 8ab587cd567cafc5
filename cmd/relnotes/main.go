// relnotes keeps a local, searchable replica of release-notes pages
// published in GitHub documentation repositories.
package main

import (
	"fmt"
	"os"

	"github.com/relnotes-labs/relnotes-cli/internal/adapters/driven/config/file"
	"github.com/relnotes-labs/relnotes-cli/internal/adapters/driven/storage/sqlite"
	"github.com/relnotes-labs/relnotes-cli/internal/adapters/driving/cli"
	"github.com/relnotes-labs/relnotes-cli/internal/connectors/github"
	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("locating config: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	client := github.NewClient(cfg.Token)
	ghCfg := github.Config{}

	syncService := services.NewSyncOrchestrator(
		cfg.SourceRepositories(),
		github.NewProber(client, ghCfg),
		github.NewScanner(client),
		github.NewFetcher(client),
		github.NewTracker(client, ghCfg),
		store.DocumentStore(),
		store.CommitStore(),
		store.RevisionStateStore(),
		store.CheckpointStore(),
		services.OrchestratorConfig{
			MinInterval: cfg.MinInterval(),
			BackfillCap: cfg.Sync.BackfillCap,
			FetchLimit:  cfg.Sync.FetchLimit,
		},
	)
	searchService := services.NewSearchService(
		store.DocumentStore(),
		store.CommitStore(),
		store,
	)

	cli.SetServices(searchService, syncService)
	cli.SetFreshnessPolicy(domain.FreshnessPolicy{NewWithinDays: cfg.Sync.FreshnessWindowDays})
	cli.SetVersion(version)

	return cli.Execute()
}
