package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/server"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := setup()
		if err != nil {
			return err
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("database migrations completed")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.EnsureSuperadmin(ctx, store.New(db), cfg.Bootstrap, logger); err != nil {
			return err
		}

		sender, err := mail.NewSender(cfg.Mail, logger)
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: server.NewRouter(cfg, db, sender, logger),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting mapadmin server", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("no-migrate", false, "skip database migrations on startup")
	rootCmd.AddCommand(serveCmd)
}
