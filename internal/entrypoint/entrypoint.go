package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/auth"
	"github.com/legendarybooks/catalogue/internal/config"
	"github.com/legendarybooks/catalogue/internal/covers"
	"github.com/legendarybooks/catalogue/internal/database"
	"github.com/legendarybooks/catalogue/internal/database/authors"
	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/database/changelog"
	"github.com/legendarybooks/catalogue/internal/database/users"
	http_controllers "github.com/legendarybooks/catalogue/internal/http"
	"github.com/legendarybooks/catalogue/internal/scheduler"
	"github.com/legendarybooks/catalogue/internal/services"
	"github.com/legendarybooks/catalogue/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before refusing new HTTP requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the full application and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Catalogue v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	coverStore, err := covers.NewStore(cfg.Covers.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize cover store: %v", err)
	}

	authorsRepo := authors.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)
	changeLogRepo := changelog.NewRepository(db.DB)

	bookService := services.NewBookService(db.DB, booksRepo, coverStore, changeLogRepo)

	// Task queue and retention scheduler
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.ChangeLogCleanupScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupChangeLogQueue(changeLogRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		cleanupScheduler = scheduler.NewChangeLogCleanupScheduler(
			taskClient,
			cfg.ChangeLog.CleanupSchedule,
			cfg.ChangeLog.RetentionDays,
		)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start change log cleanup scheduler: %v", err)
		}
	}

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	gate := auth.NewGate(sessionManager)

	limiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})

	authController := auth.NewController(authService, sessionManager, limiter)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	hasUsers, err := authService.HasUsers()
	if err != nil {
		log.Printf("Could not check for existing users: %v", err)
	} else if !hasUsers {
		log.Printf("No users found. Run 'create-admin' to create an administrator account.")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AuthorsRepo:    authorsRepo,
		BooksRepo:      booksRepo,
		UsersRepo:      usersRepo,
		ChangeLogRepo:  changeLogRepo,
		BookService:    bookService,
		CoverStore:     coverStore,
		AuthController: authController,
		SessionManager: sessionManager,
		Gate:           gate,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		BcryptCost:     cfg.Auth.BcryptCost,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		limiter.Stop()
	}

	Serve(router, cfg, onShutdown)
}
