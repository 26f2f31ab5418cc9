package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres"
)

// migrationState is the result of "migrate status".
type migrationState struct {
	Database string `json:"database"`
	Version  uint   `json:"version"`
	Dirty    bool   `json:"dirty"`
}

func (m migrationState) TableHeaders() []string { return []string{"Database", "Version", "Dirty"} }

func (m migrationState) TableRows() [][]string {
	return [][]string{{m.Database, strconv.FormatUint(uint64(m.Version), 10), strconv.FormatBool(m.Dirty)}}
}

func newMigrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "migrations source URL (default: database.postgres.migrations_path)")

	// target resolves the database URL and the migrations source.
	target := func(cmd *cobra.Command) (dbURL, source, dbName string, err error) {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return "", "", "", err
		}
		pg := cliCtx.Config.Database.Postgres
		source = path
		if source == "" {
			source = pg.MigrationsPath
		}
		return postgres.DSN(pg), source, pg.DBName, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, source, _, err := target(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(dbURL, source); err != nil {
				return err
			}
			PrintSuccess(cmd, "schema is up to date")
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, source, _, err := target(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(dbURL, source, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, source, dbName, err := target(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dbURL, source)
			if err != nil {
				return err
			}
			return PrintResult(cmd, migrationState{Database: dbName, Version: version, Dirty: dirty})
		},
	}

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Record a schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			dbURL, source, _, err := target(cmd)
			if err != nil {
				return err
			}
			if err := postgres.ForceMigrationVersion(dbURL, source, version); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("schema version forced to %d", version))
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd, forceCmd)
	return cmd
}

//Personal.AI order the ending
