package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/imagevault/imagevault/pkg/imagevault/api"
	"github.com/imagevault/imagevault/pkg/imagevault/config"
)

func main() {
	serverConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runtime, err := serverConfig.Build(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	router := buildRouter(ctx, serverConfig, runtime)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: router,
	}

	// The relay shares no in-process state with request handling; it runs
	// on its own timer until ctx is cancelled.
	if runtime.Relay != nil {
		go func() {
			if err := runtime.Relay.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Notification relay exited", "error", err)
			}
		}()
	}

	go func() {
		slog.Info("Image vault server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"repository", serverConfig.RepositoryType,
			"storage", serverConfig.StorageType,
			"notifier", serverConfig.NotifierType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	// Stop the relay before draining in-flight requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}

func buildRouter(ctx context.Context, serverConfig *config.ServerConfig, runtime *config.Runtime) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/images", api.NewImageHandler(runtime.Service).Routes())

		if serverConfig.BatchNotifierFunction != "" {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				slog.Error("Failed to load AWS config for trigger endpoint", "error", err)
			} else {
				handler := api.NewTriggerHandler(lambda.NewFromConfig(awsCfg), serverConfig.BatchNotifierFunction)
				r.Mount("/trigger", handler.Routes())
			}
		}
	})

	if runtime.Subscriptions != nil {
		r.Mount("/subscriptions", api.NewSubscriptionHandler(runtime.Subscriptions).Routes())
	}

	return r
}
