package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/app/logger"
	"yatube/app/metrics"
	"yatube/app/routes"

	"go.uber.org/zap"
)

// RunAppServer starts the blog server and blocks until SIGINT or SIGTERM.
func RunAppServer(args []string) int {
	// Extract address override if provided
	var addr string
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			addr = args[i+1]
			break
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return 1
	}
	defer store.Close()

	router, err := routes.SetupRoutes(store, routes.Options{
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.Secure,
		SessionTTL:   cfg.Session.TTL,
		Logger:       log,
		Metrics:      metrics.New(),
	})
	if err != nil {
		log.Error("failed to setup routes", zap.Error(err))
		return 1
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Error("failed to listen", zap.String("addr", srv.Addr), zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting yatube", zap.String("addr", ln.Addr().String()), zap.String("database", cfg.Database.Path))
	if err := serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, log); err != nil {
		log.Error("server error", zap.Error(err))
		return 1
	}
	log.Info("server stopped")
	return 0
}

// serve runs srv on ln until ctx is cancelled, then shuts it down, giving
// in-flight requests up to timeout to finish.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
