package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/database/seeders"
	"github.com/farmermarket/backend/pkg/database"
	"github.com/farmermarket/backend/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect()
}

// withDB opens the database, runs fn and closes the pool.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := bootDB()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	return fn(db)
}

// farmermarket migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			r := migration.New(db)
			r.SetOutput(cmd.OutOrStdout())
			return r.Run()
		})
	},
}

// farmermarket migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			r := migration.New(db)
			r.SetOutput(cmd.OutOrStdout())
			return r.Rollback()
		})
	},
}

// farmermarket migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			r := migration.New(db)
			r.SetOutput(cmd.OutOrStdout())
			return r.Status()
		})
	},
}

// farmermarket seed [name...]
var seedCmd = &cobra.Command{
	Use:       "seed [name...]",
	Short:     "Load demo data, all seeders or only the named ones",
	ValidArgs: seeders.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return seeders.Run(db, cmd.OutOrStdout(), args...)
		})
	},
}
