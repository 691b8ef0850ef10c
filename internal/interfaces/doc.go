// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
// Each HTTP controller declares the narrow store it needs; the gorm
// repositories under internal/database implement them:
//
//   - BookStore: catalog queries and writes (internal/http/books.go)
//   - AuthorStore, GenreStore: taxonomy CRUD (internal/http/authors.go, genres.go)
//   - UserStore: account records (internal/http/users.go)
//   - ReadingListStore: per-user entries and stats (internal/http/readinglist.go)
//   - Pinger: database health (internal/http/health.go)
//
// ## Authentication Interfaces
//
//   - auth.UserStore: lookups the auth service needs (internal/auth/service.go)
//   - Authenticator, AccountService: what the HTTP layer needs from auth.Service
//
// ## Background Work Interfaces
//
//   - AuthorPruner, GenrePruner: orphan removal (internal/tasks/cleanup_taxonomy.go)
//   - TaskQueue: enqueue and inspect tasks from HTTP (internal/http/tasks.go)
//   - CleanupEnqueuer: what the cron scheduler enqueues (internal/scheduler/orphan_cleanup.go)
//
// ## Import Interfaces
//
//   - BookWriter: catalog writes used by the CSV pipeline (internal/importers/pipeline.go)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/shelves/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Register its models in database.NewSchema
//
//  4. Declare the store interface next to the controller and add a
//     compile-time check here.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
