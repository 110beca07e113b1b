// Command taskapi serves the task management HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/config"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/httpapi"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/reminder"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/search"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/store"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

const shutdownTimeout = 10 * time.Second

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "taskapi",
	Short: "taskapi - task management HTTP API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to TOML config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New()
	log.SetLevel(logging.ParseLevel(cfg.Log.Level))

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svcOpts := []task.ServiceOption{
		task.WithLogger(log.WithComponent("task")),
	}

	if cfg.Search.Enabled {
		idx, err := search.NewMemIndex()
		if err != nil {
			return fmt.Errorf("create search index: %w", err)
		}
		defer idx.Close()

		// The index is in-memory, so reload it from the store on start.
		existing, err := st.List(context.Background())
		if err != nil {
			return fmt.Errorf("load tasks for indexing: %w", err)
		}
		if err := idx.Rebuild(existing); err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}
		log.Info("search index ready", map[string]interface{}{"tasks": len(existing)})

		svcOpts = append(svcOpts, task.WithIndex(idx))
	}

	svc := task.NewService(st, svcOpts...)

	if cfg.Reminder.Enabled {
		rem := reminder.NewService(svc, cfg.Reminder.Schedule,
			reminder.WithLogger(log.WithComponent("reminder")))
		if err := rem.Start(context.Background()); err != nil {
			return fmt.Errorf("start reminder: %w", err)
		}
		defer rem.Stop()
	}

	api := httpapi.NewServer(svc, httpapi.WithLogger(log.WithComponent("httpapi")))
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: api.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", map[string]interface{}{
			"addr":    srv.Addr,
			"backend": cfg.Store.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config) (task.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return store.NewMemory(), nil
	}
}
