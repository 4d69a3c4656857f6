package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// EnsureSuperadmin creates the bootstrap superadmin if no user holds
// ROLE_SUPERADMIN yet. Without a configured password a random one is
// generated and logged once.
func EnsureSuperadmin(ctx context.Context, st *store.Store, cfg config.BootstrapConfig, logger *slog.Logger) error {
	existing, err := st.ListUsers(ctx, store.UserFilter{Role: models.RoleSuperAdmin})
	if err != nil {
		return fmt.Errorf("failed to look up superadmins: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	password := cfg.SuperadminPassword
	generated := password == ""
	if generated {
		if password, err = auth.RandomPassword(16); err != nil {
			return err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         cfg.SuperadminName,
		Email:        cfg.SuperadminEmail,
		PasswordHash: hash,
		Active:       true,
	}
	if _, err := st.CreateUser(ctx, user, models.RoleSuperAdmin, nil); err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	if generated {
		logger.Warn("created superadmin with generated password, change it after first login",
			slog.String("name", cfg.SuperadminName),
			slog.String("password", password),
		)
	} else {
		logger.Info("created superadmin", slog.String("name", cfg.SuperadminName))
	}
	return nil
}
