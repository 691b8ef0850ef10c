package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/authors"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/genres"
	"github.com/mrlokans/bookshelf/internal/database/readinglist"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.BookStore = (*books.Repository)(nil)
var _ http.AuthorStore = (*authors.Repository)(nil)
var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.UserStore = (*users.Repository)(nil)
var _ http.ReadingListStore = (*readinglist.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ auth.UserStore = (*users.Repository)(nil)
var _ http.Authenticator = (*auth.Service)(nil)
var _ http.AccountService = (*auth.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuthorPruner = (*authors.Repository)(nil)
var _ tasks.GenrePruner = (*genres.Repository)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.BookWriter = (*books.Repository)(nil)
