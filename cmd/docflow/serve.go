package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ganot/docflow/internal/config"
	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/mcp"
	"github.com/ganot/docflow/internal/sqlite"
	"github.com/ganot/docflow/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var transportMode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport.Mode = transportMode
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("config: %w", err)
				}
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&transportMode, "transport", "", "stdio or http (overrides DOCFLOW_TRANSPORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	db, err := openDB(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	documentRepo := sqlite.NewDocumentRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	documentSvc := document.NewService(documentRepo, activityRepo, logger)
	itemSvc := item.NewService(itemRepo, documentRepo, activityRepo, searchRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Documents: documentSvc,
			Items:     itemSvc,
			Activity:  activitySvc,
		},
		Resolver:      keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		CalendarName:  cfg.Calendar.Name,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}

	opts := transport.Options{
		Handler:       mcp.NewHandler(documentSvc, itemSvc, activitySvc, cfg.Calendar.Name),
		Exports:       itemSvc,
		DefaultTenant: mcp.DefaultTenant,
		Limiter:       transport.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		CalendarName:  cfg.Calendar.Name,
		Logger:        logger,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		),
	}
	if cfg.Auth.Enabled {
		opts.Auth = transport.AuthMiddleware(keys)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return runHTTPMode(ctx, logger, addr, transport.NewServer(opts))
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDB(path string) (*sqlite.DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
