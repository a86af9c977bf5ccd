package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"larder/internal/config"
	appdb "larder/internal/db"
	applog "larder/internal/log"
)

// openDatabase opens and migrates the configured database.
type openDatabase func(ctx context.Context) (*gorm.DB, error)

func main() {
	if err := newRootCmd(openConfiguredDatabase, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openConfiguredDatabase(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	if cfg.Database.UseMock {
		return nil, fmt.Errorf("larderctl needs DATABASE_URL; the mock database is not persistent")
	}
	database, err := appdb.Configure(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applog.Debug(ctx, "database ready for larderctl")
	return database, nil
}

func newRootCmd(open openDatabase, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "larderctl",
		Short:         "Maintenance commands for the larder database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newImportIngredientsCmd(open),
		newCreateUserCmd(open),
	)
	return root
}

func newMigrateCmd(open openDatabase) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := appdb.AutoMigrate(database); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}
