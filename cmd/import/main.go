// Command import copies the asset register from the legacy SQL Server
// database into the primary store. It can be run repeatedly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/database"
	"github.com/foxerka/enterprise-assets/internal/legacy"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	checkOnly bool
	timeout   time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Import error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import assets from the legacy database",
		Long: `Copies asset types, categories, statuses, suppliers, workshops, assets
and equipment from the legacy SQL Server database. Rows already imported
are updated in place, so the command can be run repeatedly.

Connection settings are read from LEGACY_URL, LEGACY_USER and LEGACY_PASSWORD
(or Azure Key Vault when USE_AZURE_KEY_VAULT=true).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.checkOnly, "check", false, "only verify the legacy connection")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Minute, "abort the import after this long")
	return cmd
}

func run(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	client, err := legacy.NewClient(ctx, &cfg.Legacy, log)
	if err != nil {
		return fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing legacy connection", zap.Error(err))
		}
	}()

	health := client.HealthCheck(ctx)
	if health.Status != "healthy" {
		return fmt.Errorf("legacy database unhealthy: %s", health.Error)
	}
	log.Info("Legacy database reachable",
		zap.Duration("latency", health.Latency),
		zap.Int("open_connections", health.Open),
	)
	if opts.checkOnly {
		return nil
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
	}

	importer := legacy.NewImporter(client, db, lifecycle.NewRules(db), log)
	results, err := importer.Run(ctx)
	for _, r := range results {
		fmt.Printf("%-16s read=%d created=%d updated=%d skipped=%d\n", r.Kind, r.Read, r.Created, r.Updated, r.Skipped)
	}
	if err != nil {
		return err
	}

	log.Info("Legacy import finished", zap.Int("kinds", len(results)))
	return nil
}
