package http

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	Books       BookStore
	Authors     AuthorStore
	Genres      GenreStore
	Users       UserStore
	ReadingList ReadingListStore
	Database    Pinger

	// Orphan sweep. TaskQueue is optional; without it the sweep runs inline.
	TaskQueue    TaskQueue
	AuthorPruner tasks.AuthorPruner
	GenrePruner  tasks.GenrePruner

	// CSV catalog upload; the route is absent when nil.
	Importer importers.BookWriter

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	RateLimiter    *auth.RateLimiter

	// Paging bounds
	Catalog config.Catalog

	// Observability; Metrics is nil when disabled.
	Metrics     *Metrics
	MetricsPath string

	// DemoMode rejects every write except login.
	DemoMode bool

	// Application info
	Version string
}
