package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angotech/angotech/config"
	"github.com/angotech/angotech/database/seeders"
	"github.com/angotech/angotech/pkg/database"
	"github.com/angotech/angotech/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.MustLoad(); err != nil {
		return err
	}
	return database.Connect()
}

// angotech migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// angotech migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// angotech migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// angotech seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalogue and the default admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB)
	},
}
