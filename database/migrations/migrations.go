// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// This package is imported by cmd/angotech/main.go so all
// migrations are registered at CLI startup.
package migrations
