// relkitd serves a database's introspected entity/relationship graph
// over HTTP. It opens the configured engine once at startup, then answers
// schema queries by running the catalog traversals on demand.
//
// Run with:
//
//	relkitd -config relkit.yaml
//
// or configure entirely through the environment (RELKIT_ENGINE,
// RELKIT_DSN, …); a .env file in the working directory is honoured.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/config"
	"github.com/amadren/relkit/internal/engine/mysql"
	"github.com/amadren/relkit/internal/engine/postgres"
	"github.com/amadren/relkit/internal/engine/sqlite"
	"github.com/amadren/relkit/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// A missing .env file is fine; explicit config errors are not.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(nil).Fatalf("invalid configuration: %v", err)
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s source: %v", cfg.Database.Engine, err)
	}
	defer closeSource()

	log.With("engine", string(cfg.Database.Engine)).
		Infof("connected to %s", cfg.Database.Engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(catalog.NewIntrospector(src), cfg.Database.QueryTimeout.Std(), log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.ErrorWith("graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// openSource connects the configured engine and returns its catalog
// source plus a release function.
func openSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Database.Engine {
	case config.EngineSQLite:
		conn := sqlite.New(cfg.Database.DSN)
		if err := conn.Open(ctx); err != nil {
			return nil, nil, err
		}
		return conn, func() { conn.Close() }, nil

	case config.EnginePostgres:
		cat, err := postgres.New(ctx, cfg.Database.DSN, cfg.Database.Schema)
		if err != nil {
			return nil, nil, err
		}
		return cat, cat.Close, nil

	case config.EngineMySQL:
		cat, err := mysql.New(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return cat, func() { cat.Close() }, nil
	}
	// config.Load validated the engine already
	panic("unreachable engine " + cfg.Database.Engine)
}
