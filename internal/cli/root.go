// Package cli defines the bookshelf command line: the HTTP server plus
// maintenance commands that operate on the same database.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// NewRootCommand builds the command tree. Running the binary without a
// subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	serve := newServeCommand(version)

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Bookshelf - books catalog and reading-list service",
		Long: `Bookshelf serves a books catalog (books, authors, genres) and per-user
reading lists over a JSON HTTP API.

Configuration is read from environment variables, for example:
  DATABASE_DRIVER=sqlite|postgres  DATABASE_PATH=./bookshelf.db
  AUTH_MODE=none|jwt               PORT=8188`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newMigrateCommand(),
		newImportBooksCommand(),
		newCreateUserCommand(),
	)
	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}
}
