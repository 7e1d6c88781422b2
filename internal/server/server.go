// Package server binds the HTTP (and optional gRPC) listeners and shuts
// them down gracefully when the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/pkg/grpc"
	"github.com/farmermarket/backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Run serves handler on APP_PORT until ctx is cancelled. When GRPC_PORT is
// set the gRPC health server runs alongside.
func Run(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return serve(ctx, srv, config.GRPCPort())
}

func serve(ctx context.Context, srv *http.Server, grpcPort string) error {
	if grpcPort != "" {
		gs, _, err := grpc.Start(grpcPort)
		if err != nil {
			return err
		}
		defer grpc.Stop(gs)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("farmer market API listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
