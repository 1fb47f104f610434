package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/envirosync/envirosync-backend/internal/common/logger"
)

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

func DefaultConfig(port string) Config {
	return Config{
		Addr:              ":" + port,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func New(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

type ShutdownHook func(ctx context.Context) error

func StartWithGracefulShutdown(server *http.Server, log *logger.Logger, hooks []ShutdownHook) {
	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	server.SetKeepAlivesEnabled(false)

	for i, hook := range hooks {
		if err := hook(shutdownCtx); err != nil {
			log.Errorf("shutdown hook %d failed: %v", i, err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced to shutdown: %v", err)
	} else {
		log.Info("stopped gracefully")
	}
}
