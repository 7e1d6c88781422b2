package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/farmermarket/backend/internal/kernel"
	"github.com/farmermarket/backend/internal/server"
	"github.com/farmermarket/backend/pkg/cache"
	"github.com/farmermarket/backend/pkg/database"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/router"
	"github.com/farmermarket/backend/pkg/storage"
)

// farmermarket serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

// farmermarket run (alias of serve)
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the HTTP server (alias: serve)",
	RunE:  serveCmd.RunE,
}

// farmermarket route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db) //nolint:errcheck

		k, err := kernel.NewHTTPKernel(kernel.Deps{DB: db})
		if err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout(), k.Routes())
	},
}

func serve(ctx context.Context) error {
	db, err := bootDB()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	flush, err := logger.EnableMongo()
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	defer flush()

	store, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("cache disabled", "error", err)
	}

	disks, err := storage.Connect(ctx)
	if err != nil {
		return err
	}

	k, err := kernel.NewHTTPKernel(kernel.Deps{DB: db, Cache: store, Storage: disks})
	if err != nil {
		return err
	}
	return server.Run(ctx, k.Handler())
}

func printRoutes(out io.Writer, infos []router.Route) error {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No named routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
