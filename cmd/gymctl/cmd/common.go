package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/db"
)

// withDB opens a bare database connection without running migrations.
func withDB(cfg *config.Config, fn func(*sqlx.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

// withApp opens the fully wired, migrated application.
func withApp(cfg *config.Config, fn func(*app.App) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()
	return fn(a)
}
