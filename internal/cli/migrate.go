package cli

import (
	"database/sql"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/database"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply, roll back or list database migrations",
		Long: `Run the embedded goose migrations against the configured database
(DATABASE_URL, or the SQLite file at SQLITE_PATH). Defaults to up.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, dialect, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return runMigrate(cmd, db, dialect, action)
		},
	}
}

func openDatabase(cfg *config.Config) (*sql.DB, database.Dialect, error) {
	if cfg.UsesPostgres() {
		pgCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", database.ErrMsgFailedToParseConnString, err)
		}
		return stdlib.OpenDB(*pgCfg), database.DialectPostgres, nil
	}
	db, err := database.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, "", err
	}
	return db, database.DialectSQLite, nil
}

func runMigrate(cmd *cobra.Command, db *sql.DB, dialect database.Dialect, action string) error {
	ctx := cmd.Context()
	provider, err := database.NewMigrator(db, dialect)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch action {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No pending migrations")
		}
		for _, r := range results {
			fmt.Fprintf(out, "OK   %s (%s)\n", r.Source.Path, r.Duration.Round(time.Millisecond))
		}
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Rolled back %s\n", r.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, s := range statuses {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown migrate action %q: must be up, down or status", action)
	}
	return nil
}
