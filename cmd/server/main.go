package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wps3sync/internal/config"
	"wps3sync/internal/handler"
	"wps3sync/internal/middleware"
	"wps3sync/internal/port"
	"wps3sync/internal/repository/wordpress"
	"wps3sync/internal/router"
	"wps3sync/internal/scanner/clamd"
	"wps3sync/internal/service"
	"wps3sync/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Server.Environment == config.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize storage
	objectStorage, err := storage.NewObjectStorage(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize attachment lookup against the WordPress database
	var resolver port.AttachmentResolver
	if cfg.DB.Enabled() {
		db, err := wordpress.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = db.Close() }()
		resolver = wordpress.NewAttachmentRepo(db, cfg.DB.TablePrefix, cfg.Media.UploadBaseURL)
	} else {
		log.Printf("db.host not set: delete hooks cannot resolve attachments")
	}

	// Initialize scanner
	var scanner port.FileScanner
	if cfg.Scan.ClamdAddress != "" {
		scanner, err = clamd.NewClamdScanner(cfg.Scan.ClamdAddress)
		if err != nil {
			if cfg.Scan.FailClosed {
				return fmt.Errorf("failed to initialize scanner: %w", err)
			}
			log.Printf("scanner disabled: %v", err)
			scanner = nil
		}
	}

	// Initialize services
	syncSvc := service.NewSyncService(objectStorage, resolver, scanner, &cfg.S3, &cfg.Media, &cfg.Scan)
	var authSvc service.HookAuthService
	if cfg.Hooks.Secret != "" {
		authSvc = service.NewHookAuthService(cfg.Hooks)
	}
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// Initialize handlers
	hookH := handler.NewHookHandler(syncSvc)
	healthH := handler.NewHealthHandler(objectStorage, resolver, cfg.S3.Bucket)

	// Setup router
	r := router.Setup(authSvc, limiter, hookH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (bucket=%s, url_mode=%s)", cfg.Server.Port, cfg.S3.Bucket, cfg.Media.URLMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
