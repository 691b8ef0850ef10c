package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/authors"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/genres"
	"github.com/mrlokans/bookshelf/internal/database/readinglist"
	"github.com/mrlokans/bookshelf/internal/database/users"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop producers of background work before the listener goes away.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component from cfg and serves until interrupted.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	readingListRepo := readinglist.NewRepository(db.DB)

	authService, err := auth.NewService(userRepo, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize auth: %w", err)
	}
	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		PerMinute: cfg.Auth.LoginRatePerMinute,
		Burst:     cfg.Auth.LoginBurst,
	})
	defer rateLimiter.Stop()

	if cfg.Auth.Mode == config.AuthModeJWT {
		log.Printf("Authentication mode: jwt")
		if count, err := userRepo.CountUsers(); err == nil && count == 0 {
			log.Printf("No users found. Create an administrator with 'bookshelf create-user --admin'.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Task queue is optional; without it the orphan sweep runs inline.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromSettings(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupOrphanTaxonomyQueue(authorRepo, genreRepo))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var cleanupScheduler *scheduler.OrphanCleanupScheduler
	if taskClient != nil {
		cleanupScheduler = scheduler.NewOrphanCleanupScheduler(taskClient, cfg.Maintenance.OrphanCleanupSchedule, cfg.Maintenance.OrphanCleanupEnabled)
	} else {
		if cfg.Maintenance.OrphanCleanupEnabled {
			log.Printf("[SCHEDULER] Orphan cleanup requires the task queue (TASKS_ENABLED=true); not scheduling")
		}
		cleanupScheduler = scheduler.NewOrphanCleanupScheduler(nil, cfg.Maintenance.OrphanCleanupSchedule, false)
	}
	if err := cleanupScheduler.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start orphan cleanup scheduler: %w", err)
	}

	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
	}

	var metrics *http_controllers.Metrics
	if cfg.Metrics.Enabled {
		metrics = http_controllers.NewMetrics()
	}

	routerCfg := http_controllers.RouterConfig{
		Books:          bookRepo,
		Authors:        authorRepo,
		Genres:         genreRepo,
		Users:          userRepo,
		ReadingList:    readingListRepo,
		Database:       db,
		AuthorPruner:   authorRepo,
		GenrePruner:    genreRepo,
		Importer:       bookRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AuthConfig:     cfg.Auth,
		RateLimiter:    rateLimiter,
		Catalog:        cfg.Catalog,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		DemoMode:       cfg.Demo.Enabled,
		Version:        version,
	}
	// Leave the interface nil rather than wrapping a nil *tasks.Client.
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
	return nil
}
