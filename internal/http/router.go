package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// hstsMaxAge is one year; the header is only sent on HTTPS requests.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	if cfg.DemoMode {
		router.Use(demo.NewMiddleware(true).Handler())
	}

	// Identify the caller; without a middleware every request is anonymous.
	middleware := cfg.AuthMiddleware
	if middleware == nil {
		middleware = auth.NewMiddleware(cfg.AuthService, cfg.AuthConfig)
	}
	router.Use(middleware.Handler())

	catalogLimits := PageLimits{Default: cfg.Catalog.DefaultLimit, Max: cfg.Catalog.MaxLimit}
	readingListLimits := PageLimits{Default: cfg.Catalog.DefaultLimit, Max: cfg.Catalog.ReadingListMaxLimit}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/", health.Root)
	router.GET("/health", health.Status)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, cfg.Metrics.Handler())
	}

	// Auth endpoints
	if cfg.AuthService != nil {
		authController := NewAuthController(cfg.AuthService)
		router.POST("/auth/register", authController.Register)
		login := []gin.HandlerFunc{authController.Login}
		if cfg.RateLimiter != nil {
			login = append([]gin.HandlerFunc{cfg.RateLimiter.RateLimitMiddleware()}, login...)
		}
		router.POST("/auth/login", login...)
	}

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(entities.UserRoleAdmin)

	// Books
	if cfg.Books != nil {
		booksController := NewBooksController(cfg.Books, catalogLimits)
		router.GET("/books", booksController.ListBooks)
		router.GET("/books/count", booksController.CountBooks)
		router.GET("/books/:id", booksController.GetBook)
		router.POST("/books", booksController.CreateBook)
		router.PUT("/books/:id", booksController.UpdateBook)
		router.DELETE("/books/:id", booksController.DeleteBook)
	}

	// Authors
	if cfg.Authors != nil {
		authorsController := NewAuthorsController(cfg.Authors, cfg.Books, catalogLimits)
		router.GET("/authors", authorsController.ListAuthors)
		router.GET("/authors/count", authorsController.CountAuthors)
		router.GET("/authors/:id", authorsController.GetAuthor)
		router.GET("/authors/:id/books", authorsController.ListAuthorBooks)
		router.POST("/authors", authorsController.CreateAuthor)
		router.PUT("/authors/:id", authorsController.UpdateAuthor)
		router.DELETE("/authors/:id", authorsController.DeleteAuthor)
	}

	// Genres
	if cfg.Genres != nil {
		genresController := NewGenresController(cfg.Genres, cfg.Books, catalogLimits)
		router.GET("/genres", genresController.ListGenres)
		router.GET("/genres/count", genresController.CountGenres)
		router.GET("/genres/top", genresController.TopGenres)
		router.GET("/genres/:id", genresController.GetGenre)
		router.GET("/genres/:id/books", genresController.ListGenreBooks)
		router.POST("/genres", genresController.CreateGenre)
		router.PUT("/genres/:id", genresController.UpdateGenre)
		router.DELETE("/genres/:id", genresController.DeleteGenre)
	}

	// Users: reads are public, writes need a token; only admins create
	// accounts here and only owners or admins change one.
	if cfg.Users != nil && cfg.AuthService != nil {
		usersController := NewUsersController(cfg.Users, cfg.AuthService, catalogLimits)
		router.GET("/users", usersController.ListUsers)
		router.GET("/users/:id", usersController.GetUser)
		router.GET("/users/email/:email", usersController.GetUserByEmail)
		router.POST("/users", requireAuth, requireAdmin, usersController.CreateUser)
		router.PUT("/users/:id", requireAuth, middleware.RequireOwner("id"), usersController.UpdateUser)
		router.DELETE("/users/:id", requireAuth, middleware.RequireOwner("id"), usersController.DeleteUser)
	}

	// Reading list: every route is scoped to its owner.
	if cfg.ReadingList != nil {
		readingList := NewReadingListController(cfg.ReadingList, readingListLimits)
		group := router.Group("/readinglist", requireAuth, middleware.RequireOwner("user_id"))
		group.GET("/stats/:user_id", readingList.Stats)
		group.GET("/:user_id", readingList.ListEntries)
		group.GET("/:user_id/:book_id", readingList.GetEntry)
		group.POST("", readingList.AddEntry)
		group.PATCH("/:user_id/:book_id", readingList.UpdateEntry)
		group.DELETE("/:user_id/:book_id", readingList.RemoveEntry)
	}

	// Maintenance
	admin := router.Group("/admin", requireAuth, requireAdmin)
	if cfg.AuthorPruner != nil && cfg.GenrePruner != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.AuthorPruner, cfg.GenrePruner)
		admin.POST("/cleanup/orphans", tasksController.CleanupOrphans)
		admin.GET("/tasks/:id", tasksController.GetTaskStatus)
	}
	if cfg.Importer != nil {
		admin.POST("/import/books", NewImportController(cfg.Importer).ImportBooks)
	}

	return router
}
