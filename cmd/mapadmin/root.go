package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/database"
	"github.com/mikepea/mapadmin/pkg/mapadmin/server"
)

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "mapadmin",
	Short:         "Administration backend for users and groups of the map platform",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
}

// setup loads the configuration and opens the database
func setup() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := server.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, logger, db, nil
}
