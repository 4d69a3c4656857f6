// Package server assembles the mapadmin HTTP API
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mikepea/mapadmin/pkg/mapadmin/admin"
	"github.com/mikepea/mapadmin/pkg/mapadmin/apikeys"
	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/groups"
	"github.com/mikepea/mapadmin/pkg/mapadmin/importexport"
	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/metrics"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/scim"
	"github.com/mikepea/mapadmin/pkg/mapadmin/service"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// NewRouter wires handlers, middleware and the administration service
func NewRouter(cfg *config.Config, db *gorm.DB, sender mail.Sender, logger *slog.Logger) *gin.Engine {
	st := store.New(db)
	tokens := auth.NewTokens(cfg.JWT)
	svc := service.New(st, sender, cfg.Defaults, cfg.Mail.Product, logger)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), gin.Recovery())

	if cfg.Server.Metrics {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "mapadmin",
			})
		})

		// Auth routes (public)
		auth.NewHandler(db, tokens, st).RegisterRoutes(api.Group("/auth"))

		// Combined auth middleware (accepts JWT or API key)
		combinedAuth := apikeys.CombinedAuthMiddleware(st, tokens, logger)

		// API keys routes (JWT only, keys cannot mint keys)
		apikeys.NewHandler(st).RegisterRoutes(api.Group("", auth.AuthMiddleware(tokens, st)))

		// Administration routes (JWT or API key, admin role required)
		adminGroup := api.Group("/admin", combinedAuth, auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
		admin.NewHandler(svc, logger).RegisterRoutes(adminGroup)
		groups.NewHandler(svc, logger).RegisterRoutes(adminGroup)
		importexport.NewHandler(svc, logger).RegisterRoutes(adminGroup)
	}

	// SCIM read-only view for identity providers (JWT or API key, admin role required)
	scimGroup := r.Group("/scim/v2", apikeys.CombinedAuthMiddleware(st, tokens, logger), auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	{
		scim.NewHandler(svc, cfg.Server.BaseURL, logger).RegisterRoutes(scimGroup)
	}

	return r
}
