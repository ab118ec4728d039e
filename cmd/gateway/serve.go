package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/octofence/reactgate/internal/config"
	"github.com/octofence/reactgate/internal/gatewayhttp"
	"github.com/octofence/reactgate/internal/obslog"
	"github.com/octofence/reactgate/internal/orchestrator"
	"github.com/octofence/reactgate/internal/tools"
	"github.com/octofence/reactgate/internal/upstream"
)

const chatCompletionsPath = "/v1/chat/completions"

func buildServeCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		Long: `Start the gateway's HTTP server.

The server loads its configuration from environment variables
(GATEWAY_UPSTREAM_BASE_URL, GATEWAY_UPSTREAM_API_KEY, GATEWAY_LISTEN_ADDR,
GATEWAY_ALLOWED_MODELS, GATEWAY_ALLOWLIST_FILE), wires the tool registry and
the ReACT orchestrator to a single chat-completions endpoint, and shuts down
gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			obslog.Setup(logLevel)
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if file := os.Getenv("GATEWAY_ALLOWLIST_FILE"); file != "" {
		config.WatchAllowlistFile(ctx, cfg, file)
	}

	registry, err := tools.NewRegistry()
	if err != nil {
		return fmt.Errorf("building tool registry: %w", err)
	}
	executor := tools.NewExecutor(registry)

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey)
	caller := upstream.NewOrchestratorCaller(client)
	streamer := upstream.NewStreamRelay(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, &http.Client{Timeout: 0})

	orchestratorFactory := func() *orchestrator.Orchestrator {
		return orchestrator.New(caller, registry, executor, slog.Default())
	}

	handler := gatewayhttp.NewHandler(cfg, orchestratorFactory, streamer, slog.Default())

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      traceMiddleware(handler.Mux(chatCompletionsPath)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming responses can run indefinitely
	}

	serveErrCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "gateway listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// traceMiddleware stamps every request with a trace id, threaded through
// slog via obslog's context key, so logs for one request can be correlated.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := obslog.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
