package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Create or update every catalog table in the configured database.

The server migrates on start as well; this command is useful before the
first deploy or when the server runs with a read-only role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.OutOrStdout(), config.NewConfig().Database)
		},
	}
}

func runMigrate(out io.Writer, cfg config.Database) error {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(out, "Schema is up to date (%d tables, %d join tables)\n",
		len(db.Schema.Models), len(db.Schema.JoinTables))
	return nil
}
