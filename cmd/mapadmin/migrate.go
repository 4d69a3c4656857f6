package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/server"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema, seed the roles and create the
bootstrap superadmin if no superadmin exists yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := setup()
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("database migrations completed", slog.String("driver", cfg.Database.Driver))
		return server.EnsureSuperadmin(context.Background(), store.New(db), cfg.Bootstrap, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
