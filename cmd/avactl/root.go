package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ava/internal/config"
	"ava/internal/db"
	"ava/internal/db/mock"
	applog "ava/internal/log"
)

type rootOptions struct {
	databaseURL string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "avactl",
		Short:         "avactl manages the Ava ingredient catalog",
		Long:          "avactl seeds and imports the reference ingredient catalog and analyzes ingredient lists against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotenv(); err != nil {
				return err
			}
			return applog.SetLevel(opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "db", "", "Database URL (defaults to DATABASE_URL; sqlite: or file: URLs open sqlite)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level: debug, info or error")

	cmd.AddCommand(
		newSeedCmd(opts),
		newImportCmd(opts),
		newAnalyzeCmd(opts),
	)
	return cmd
}

// withDB opens and migrates the configured database, runs fn and closes it.
func (o *rootOptions) withDB(ctx context.Context, fn func(*gorm.DB) error) error {
	cfg := config.DatabaseFromEnv()
	if url := strings.TrimSpace(o.databaseURL); url != "" {
		cfg.URL = url
		cfg.UseMock = false
	}

	var (
		database *gorm.DB
		err      error
	)
	if cfg.UseMock {
		database, err = mock.New(ctx)
	} else {
		if cfg.URL == "" {
			return fmt.Errorf("no database configured: pass --db or set DATABASE_URL")
		}
		database, err = db.Initialize(cfg)
		if err == nil {
			err = db.AutoMigrate(database)
		}
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	return fn(database)
}
