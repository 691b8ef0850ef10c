// Package importers loads catalog data from external files.
//
// # Architecture
//
// The import flow is:
//
//	CSV file → ParseBooksCSV → []BookRow → Pipeline → books.Repository
//
// ParseBooksCSV reads a Goodreads-style export and returns one BookRow per
// usable line together with per-line error strings for lines it skipped.
// The Pipeline feeds rows through the normal book create path, so author and
// genre names are resolved exactly as they are for the HTTP API.
//
// # CSV Format
//
// The header row is required and matched case-insensitively. title and isbn
// are mandatory; every other column is optional:
//
//	title,authors,genres,isbn,isbn13,description,format,pages,
//	average_rating,total_ratings,reviews_count,image_url,goodreads_link
//
// authors and genres hold several names separated by "|".
//
// # Example Usage
//
//	f, _ := os.Open("books.csv")
//	rows, warnings, err := importers.ParseBooksCSV(f)
//	pipeline := importers.NewPipeline(books.NewRepository(db))
//	result := pipeline.ImportBooks(rows)
package importers
