package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"archetype-quiz-service/internal/config"
	pgmigrations "archetype-quiz-service/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var errNoPostgres = errors.New("postgres url not configured")

// NewMigrateCmd manages the kv_entries schema. Without flags it applies
// pending migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var status, rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, inspect or roll back database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status && rollback {
				return fmt.Errorf("--status and --rollback are mutually exclusive")
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return withMigrator(cmd.Context(), cfg, func(m *migrate.Migrator) error {
				switch {
				case status:
					return printMigrationStatus(cmd, m)
				case rollback:
					return rollbackLastGroup(cmd.Context(), m)
				default:
					return applyMigrations(cmd.Context(), m)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list applied and pending migrations")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last applied group")
	return cmd
}

// runMigrationsWithConfig brings the schema up to date; the server calls it
// on startup when postgres is configured.
func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	return withMigrator(ctx, cfg, func(m *migrate.Migrator) error {
		return applyMigrations(ctx, m)
	})
}

func withMigrator(ctx context.Context, cfg config.Config, fn func(*migrate.Migrator) error) error {
	if cfg.Postgres.URL == "" {
		return errNoPostgres
	}
	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL))), pgdialect.New())
	defer db.Close()

	m := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := m.Init(ctx); err != nil {
		return fmt.Errorf("init migration tables: %w", err)
	}
	return fn(m)
}

func applyMigrations(ctx context.Context, m *migrate.Migrator) error {
	group, err := m.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		zap.L().Info("schema up to date")
		return nil
	}
	zap.L().Info("migrations applied", zap.String("group", group.String()))
	return nil
}

func rollbackLastGroup(ctx context.Context, m *migrate.Migrator) error {
	group, err := m.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	if group.IsZero() {
		zap.L().Info("nothing to roll back")
		return nil
	}
	zap.L().Warn("migrations rolled back", zap.String("group", group.String()))
	return nil
}

func printMigrationStatus(cmd *cobra.Command, m *migrate.Migrator) error {
	ms, err := m.MigrationsWithStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	for _, line := range migrationStatusLines(ms) {
		cmd.Println(line)
	}
	return nil
}

func migrationStatusLines(ms migrate.MigrationSlice) []string {
	lines := make([]string, 0, len(ms))
	for _, mig := range ms {
		if mig.IsApplied() {
			lines = append(lines, fmt.Sprintf("applied  %s (group %d)", mig.Name, mig.GroupID))
			continue
		}
		lines = append(lines, fmt.Sprintf("pending  %s", mig.Name))
	}
	return lines
}
