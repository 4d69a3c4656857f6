package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/metrics"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// UserInput is a user as submitted by a client. On update the fields
// Email, Password, MapConfigID, WmsProxyConfigID, WfsProxyConfigID,
// MapLayerIDs and Roles keep the stored value when left unset, as does
// Active.
type UserInput struct {
	Name       string
	Email      string
	FirstName  string
	LastName   string
	Street     string
	Zip        string
	City       string
	Country    string
	Language   string
	AppUser    string
	Active     *bool
	ModuleList string

	Password         string
	MapConfigID      *uint
	WmsProxyConfigID *uint
	WfsProxyConfigID *uint
	MapLayerIDs      []uint
	Roles            []string
}

// UserFilter narrows ListUsers
type UserFilter struct {
	Query string
	Role  string
}

// CreateUsers creates the given users with random passwords and mails each
// user its password. Users created by an admin join all of the admin's
// groups.
func (s *Service) CreateUsers(ctx context.Context, p *auth.Principal, inputs []UserInput) ([]models.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	var created []models.User
	err := s.inTx(ctx, func(tx *store.Store, out *outbox) error {
		created = make([]models.User, 0, len(inputs))
		for _, in := range inputs {
			u, err := s.createUser(ctx, tx, out, p, in)
			if err != nil {
				return err
			}
			created = append(created, *u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersCreated.Add(float64(len(created)))
	for _, u := range created {
		s.logger.Info("user created", slog.String("user", u.Name), slog.String("by", p.Name))
	}
	return created, nil
}

func (s *Service) createUser(ctx context.Context, tx *store.Store, out *outbox, p *auth.Principal, in UserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email of user %s is required", ErrValidation, in.Name)
	}

	exists, err := store.Exists[models.User](ctx, tx, "name", in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user %s: %w", in.Name, ErrConflict)
	}

	plain, hash, err := s.newPassword()
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:             in.Name,
		PasswordHash:     hash,
		Active:           true,
		MapConfigID:      in.MapConfigID,
		WmsProxyConfigID: in.WmsProxyConfigID,
		WfsProxyConfigID: in.WfsProxyConfigID,
	}
	copyProfile(u, in)
	if u.AppUser == "" {
		u.AppUser = p.Name
	}
	if in.Active != nil {
		u.Active = *in.Active
	}

	if err := s.applyDefaults(ctx, tx, u); err != nil {
		return nil, err
	}
	if u.Modules, err = resolveModules(ctx, tx, in.ModuleList); err != nil {
		return nil, err
	}
	if u.MapLayers, err = tx.MapLayersByIDs(ctx, in.MapLayerIDs); err != nil {
		return nil, translateRef(err, "map layer")
	}

	var groupIDs []uint
	if !p.IsSuperAdmin() {
		groupIDs = p.GroupIDs
	}
	u, err = tx.CreateUser(ctx, u, models.RoleUser, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", in.Name, err)
	}

	if err := out.add(mail.Registration, u.Email, mail.Data{UserName: u.Name, Password: plain}); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUsers updates existing users, identified by name. Admins can only
// update users of their own groups. Fields the client left unset keep
// their stored value (see UserInput).
func (s *Service) UpdateUsers(ctx context.Context, p *auth.Principal, inputs []UserInput) ([]models.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	var updated []models.User
	err := s.inTx(ctx, func(tx *store.Store, _ *outbox) error {
		updated = make([]models.User, 0, len(inputs))
		for _, in := range inputs {
			u, err := s.updateUser(ctx, tx, p, in)
			if err != nil {
				return err
			}
			updated = append(updated, *u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersUpdated.Add(float64(len(updated)))
	return updated, nil
}

func (s *Service) updateUser(ctx context.Context, tx *store.Store, p *auth.Principal, in UserInput) (*models.User, error) {
	modules, err := resolveModules(ctx, tx, in.ModuleList)
	if err != nil {
		return nil, err
	}

	var old *models.User
	if p.IsSuperAdmin() {
		old, err = tx.UserByName(ctx, in.Name)
	} else {
		old, err = tx.UserByNameInGroups(ctx, in.Name, p.GroupIDs)
	}
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: user %s is not accessible", ErrForbidden, in.Name)
	}
	if err != nil {
		return nil, err
	}
	if old.HasRole(models.RoleSuperAdmin) && !p.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: user %s is a superadmin", ErrForbidden, in.Name)
	}

	merged, err := s.merge(ctx, tx, p, old, in)
	if err != nil {
		return nil, err
	}
	merged.Modules = modules

	u, err := tx.UpdateUser(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", in.Name, err)
	}
	return u, nil
}

// merge builds the updated user from the stored one and the client input
func (s *Service) merge(ctx context.Context, tx *store.Store, p *auth.Principal, old *models.User, in UserInput) (*models.User, error) {
	u := *old
	copyProfile(&u, in)
	if in.Active != nil {
		u.Active = *in.Active
	}

	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if in.MapConfigID != nil {
		u.MapConfigID = in.MapConfigID
	}
	if in.WmsProxyConfigID != nil {
		u.WmsProxyConfigID = in.WmsProxyConfigID
	}
	if in.WfsProxyConfigID != nil {
		u.WfsProxyConfigID = in.WfsProxyConfigID
	}
	if err := s.checkRefs(ctx, tx, &u); err != nil {
		return nil, err
	}

	if in.MapLayerIDs != nil {
		layers, err := tx.MapLayersByIDs(ctx, in.MapLayerIDs)
		if err != nil {
			return nil, translateRef(err, "map layer")
		}
		u.MapLayers = layers
	}

	if in.Roles != nil {
		roles := make([]models.Role, 0, len(in.Roles))
		for _, name := range in.Roles {
			if name == models.RoleSuperAdmin && !p.IsSuperAdmin() {
				return nil, fmt.Errorf("%w: only superadmins can grant %s", ErrForbidden, name)
			}
			role, err := tx.RoleByName(ctx, name)
			if err != nil {
				return nil, translateRef(err, "role")
			}
			roles = append(roles, *role)
		}
		u.Roles = roles
	}
	return &u, nil
}

func copyProfile(u *models.User, in UserInput) {
	if in.Email != "" {
		u.Email = in.Email
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Street = in.Street
	u.Zip = in.Zip
	u.City = in.City
	u.Country = in.Country
	u.Language = in.Language
	u.ModuleList = in.ModuleList
	if in.AppUser != "" {
		u.AppUser = in.AppUser
	}
}

// DeleteUser removes a user. Admins can only delete users of their own
// groups; other users are reported as not found. Superadmins can only be
// deleted by superadmins.
func (s *Service) DeleteUser(ctx context.Context, p *auth.Principal, id uint) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if id == p.UserID {
		return fmt.Errorf("%w: cannot delete yourself", ErrValidation)
	}

	err := s.inTx(ctx, func(tx *store.Store, _ *outbox) error {
		if p.IsSuperAdmin() {
			return translate(tx.DeleteUser(ctx, id), "delete user %d", id)
		}
		if err := s.visible(ctx, tx, p, id); err != nil {
			return err
		}
		if err := protectSuperadmin(ctx, tx, p, id); err != nil {
			return err
		}
		return translate(tx.DeleteUserInGroups(ctx, id, p.GroupIDs), "delete user %d", id)
	})
	if err != nil {
		return err
	}

	metrics.UsersDeleted.Inc()
	s.logger.Info("user deleted", slog.Uint64("user_id", uint64(id)), slog.String("by", p.Name))
	return nil
}

// ListUsers lists the users visible to the caller
func (s *Service) ListUsers(ctx context.Context, p *auth.Principal, f UserFilter) ([]models.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, store.UserFilter{Query: f.Query, Role: f.Role, GroupIDs: scope(p)})
}

// GetUser loads a user visible to the caller
func (s *Service) GetUser(ctx context.Context, p *auth.Principal, id uint) (*models.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.visible(ctx, s.store, p, id); err != nil {
		return nil, err
	}
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user %d", id)
	}
	return u, nil
}

// visible reports ErrNotFound for users outside the caller's groups
func (s *Service) visible(ctx context.Context, st *store.Store, p *auth.Principal, id uint) error {
	if p.IsSuperAdmin() {
		return nil
	}
	ok, err := st.UserInGroups(ctx, id, p.GroupIDs)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// protectSuperadmin rejects changes to a superadmin by anyone else than a
// superadmin. A missing user is left to the caller's own lookup.
func protectSuperadmin(ctx context.Context, st *store.Store, p *auth.Principal, id uint) error {
	if p.IsSuperAdmin() {
		return nil
	}
	u, err := store.Get[models.User](ctx, st, id, "Roles")
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if u.HasRole(models.RoleSuperAdmin) {
		return fmt.Errorf("%w: user %d is a superadmin", ErrForbidden, id)
	}
	return nil
}

// ResetPassword sets a new random password for the user with the given id
// and mails it to the user. It performs no access check and backs the
// out-of-band reset command.
func (s *Service) ResetPassword(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	return s.resetPassword(ctx, id, func(*store.Store) error { return nil })
}

// ResetUserPassword resets the password of a user visible to the caller
func (s *Service) ResetUserPassword(ctx context.Context, p *auth.Principal, userID string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	return s.resetPassword(ctx, id, func(tx *store.Store) error {
		if err := s.visible(ctx, tx, p, id); err != nil {
			return err
		}
		return protectSuperadmin(ctx, tx, p, id)
	})
}

func (s *Service) resetPassword(ctx context.Context, id uint, check func(tx *store.Store) error) error {
	err := s.inTx(ctx, func(tx *store.Store, out *outbox) error {
		if err := check(tx); err != nil {
			return err
		}
		u, err := store.Get[models.User](ctx, tx, id)
		if err != nil {
			return translate(err, "user %d", id)
		}

		plain, hash, err := s.newPassword()
		if err != nil {
			return err
		}
		if err := tx.SetUserPassword(ctx, u.ID, hash); err != nil {
			return translate(err, "store password of user %d", id)
		}
		return out.add(mail.PasswordChanged, u.Email, mail.Data{UserName: u.Name, Password: plain})
	})
	if err != nil {
		return err
	}

	metrics.PasswordResets.Inc()
	s.logger.Info("password reset", slog.Uint64("user_id", uint64(id)))
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid user id %q", ErrValidation, raw)
	}
	return uint(id), nil
}
