package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/importers"
)

// ImportBooksCommand loads a catalog CSV into the database.
type ImportBooksCommand struct {
	File    string
	DryRun  bool
	Verbose bool
}

func newImportBooksCommand() *cobra.Command {
	opts := &ImportBooksCommand{}

	cmd := &cobra.Command{
		Use:   "import-books --file <path>",
		Short: "Import books from a catalog CSV file",
		Long: `Import books from a Goodreads-style CSV file.

Required columns: title, isbn. Optional columns: authors, genres, isbn13,
description, format, pages, average_rating, total_ratings, reviews_count,
image_url, goodreads_link. authors and genres separate names with "|".

Books whose ISBN is already in the catalog are skipped.

Examples:
  bookshelf import-books --file books.csv
  bookshelf import-books --file books.csv --dry-run --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.Run(cmd.OutOrStdout(), config.NewConfig().Database)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Path to the CSV file (required)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Parse the file without writing to the database")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print every parsed row and skipped line")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (c *ImportBooksCommand) Run(out io.Writer, dbCfg config.Database) error {
	fmt.Fprintln(out, "Catalog Import")
	fmt.Fprintln(out, "==============")

	if c.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}

	file, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	rows, warnings, err := importers.ParseBooksCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse csv: %w", err)
	}

	fmt.Fprintf(out, "File: %s\n", c.File)
	fmt.Fprintf(out, "Parsed %d books (%d lines skipped)\n", len(rows), len(warnings))

	if c.Verbose {
		for _, w := range warnings {
			fmt.Fprintf(out, "  %s\n", w)
		}
		for _, row := range rows {
			fmt.Fprintf(out, "  %d. %q [%s] by %v\n", row.Line, row.Input.Title, row.Input.ISBN, row.Input.Authors)
		}
	}

	if c.DryRun || len(rows) == 0 {
		return nil
	}

	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result := importers.NewPipeline(books.NewRepository(db.DB)).ImportBooks(rows)

	fmt.Fprintf(out, "\nCreated: %d\nSkipped (already in catalog): %d\nFailed: %d\n",
		result.Created, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d books failed to import", result.Failed)
	}
	return nil
}
