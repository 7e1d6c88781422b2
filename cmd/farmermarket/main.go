package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/farmermarket/backend/database/migrations"
)

const (
	groupServer   = "server"
	groupDatabase = "database"
)

var rootCmd = &cobra.Command{
	Use:           "farmermarket",
	Short:         "Farmer market backend",
	Long:          "Serves the farmer market REST and GraphQL API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupServer, Title: "API server:"},
		&cobra.Group{ID: groupDatabase, Title: "Schema and demo data:"},
	)
	addGrouped(groupServer, serveCmd, runCmd, routeListCmd)
	addGrouped(groupDatabase, migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd)
}

func addGrouped(group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		rootCmd.AddCommand(c)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "farmermarket:", err)
		os.Exit(1)
	}
}
