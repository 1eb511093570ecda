package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/rs/zerolog/log"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

const migrateTimeout = 5 * time.Minute

func newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Executes all migrations which are not yet applied.",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			command.SetupLogger(cfg)

			n, err := ApplyMigrations(context.Background(), cfg)
			if err != nil {
				log.Fatal().Err(err).Msg("Error while applying migrations")
			}

			log.Info().Int("appliedMigrationsCount", n).Msg("Successfully applied migrations")
		},
	}
}

// ApplyMigrations runs every pending migration in config.DatabaseMigrationFolder.
func ApplyMigrations(ctx context.Context, cfg config.Server) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return 0, errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to ping database")
	}

	migrate.SetTable(config.DatabaseMigrationTable)

	migrations := &migrate.FileMigrationSource{Dir: config.DatabaseMigrationFolder}

	n, err := migrate.ExecContext(ctx, db, "postgres", migrations, migrate.Up)
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply migrations")
	}

	return n, nil
}
