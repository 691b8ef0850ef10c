// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL) and migration
//	├── schema.go        # Schema value: models and explicit join tables
//	├── errors.go        # Store error classification into apperrors kinds
//	├── books/           # Catalog query engine and association resolver
//	├── authors/         # Author CRUD and delete guard
//	├── genres/          # Genre CRUD, delete guard and top genres
//	├── users/           # User management and delete guard
//	└── readinglist/     # Reading-list state tracker and stats
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	readingList := readinglist.NewRepository(db.DB)
//
//	page, err := booksRepo.ListBooks(books.Filter{Title: "dune"}, params)
//
// # Units of Work
//
// Every mutation that touches more than one row runs inside
// db.Transaction, so a failure half way leaves the prior state intact.
// Repositories return errors from internal/apperrors only.
package database
