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

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/audit"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/books"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/config"
	http_controllers "github.com/Nanaloveyuki/LiteShelf-Backend/internal/http"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/scheduler"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/users"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

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

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting LiteShelf backend v%s", version)

	// The storage root must exist and be writable before anything is served
	if err := os.MkdirAll(cfg.Storage.Root, 0755); err != nil {
		log.Fatalf("Storage root %s is not usable: %v", cfg.Storage.Root, err)
	}
	probe := fmt.Sprintf("%s/.liteshelf", cfg.Storage.Root)
	if _, err := os.Create(probe); err != nil {
		log.Fatalf("Storage root %s is not writable: %v", cfg.Storage.Root, err)
	}
	if err := os.Remove(probe); err != nil {
		log.Printf("Could not remove the probe file from the storage root: %v", err)
	}
	log.Printf("Using storage root %s", cfg.Storage.Root)

	paths := storage.NewPaths(cfg.Storage.Root)
	locks := storage.NewKeyedMutex()

	userRepo := users.NewRepository(paths, locks, cfg.Auth.BcryptCost)
	bookRepo := books.NewRepository(paths, locks, userRepo)

	auditor := audit.NewAuditor(cfg.Audit.Dir)
	auditService := audit.NewService(auditor)

	cleanup := scheduler.NewAuditCleanupScheduler(auditor, cfg.Audit.RetentionDays, cfg.Audit.CleanupSchedule)
	if err := cleanup.Start(); err != nil {
		log.Printf("Audit cleanup scheduler not started: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookStore:    bookRepo,
		UserStore:    userRepo,
		AuditService: auditService,
		StorageRoot:  cfg.Storage.Root,
		Version:      version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		cleanup.Stop()
	})
}
