package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fentz26/taskkeep/internal/audit"
	"github.com/fentz26/taskkeep/internal/logging"
	"github.com/fentz26/taskkeep/internal/server"
	"github.com/fentz26/taskkeep/internal/service"
	"github.com/fentz26/taskkeep/internal/store"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the taskkeep API server",
	Long: `Starts the taskkeep daemon which serves the HTTP API.
Records are kept in memory unless --db points at a SQLite file.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().String("listen", "127.0.0.1:7466", "Listen address for the API server")
	daemonCmd.Flags().String("db", "", "Path to SQLite database (empty keeps records in memory)")
	daemonCmd.Flags().Bool("seed", false, "Create sample tasks and a sample user at startup")
	daemonCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	daemonCmd.Flags().String("log-format", "text", "Log format (text, json)")
	daemonCmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	daemonCmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
}

// backend is everything the daemon needs from a record store.
type backend interface {
	service.TaskRepository
	service.UserRepository
	audit.Sink
	server.Pinger
	Close() error
}

func openBackend(path string, log logrus.FieldLogger) (backend, error) {
	if path == "" {
		log.Info("Using in-memory store")
		return store.NewMemory(), nil
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("db", path).Info("Opened SQLite store")
	return s, nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("Starting taskkeep daemon...")

	s, err := openBackend(cfg.DB, log)
	if err != nil {
		return err
	}

	engine := validation.New()
	recorder := audit.NewRecorder(s, log)
	tasks := service.NewTasks(s, engine, recorder, log)
	users := service.NewUsers(s, engine, recorder, log)

	if cfg.Seed {
		if err := service.Seed(tasks, users, time.Now()); err != nil {
			s.Close()
			return err
		}
		log.Info("Sample data created")
	}

	srv := server.NewServer(tasks, users, s, log, server.Options{
		Addr:         cfg.Listen,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Version:      version,
	})

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Infof("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("Server error")
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	log.Info("Closing store...")
	if err := s.Close(); err != nil {
		log.WithError(err).Warn("Store close error")
	}

	log.Info("Shutdown complete")
	return nil
}
