package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/metrics"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// GroupInput is a group as submitted by a client. On update the group is
// identified by ID, or by Number when ID is zero.
type GroupInput struct {
	ID         uint
	Number     string
	Name       string
	Street     string
	Zip        string
	City       string
	Country    string
	Language   string
	Mail       string
	AppUser    string
	ModuleList string
}

func (in GroupInput) apply(g *models.Group) {
	g.Number = strings.TrimSpace(in.Number)
	g.Name = in.Name
	g.Street = in.Street
	g.Zip = in.Zip
	g.City = in.City
	g.Country = in.Country
	g.Language = in.Language
	g.Mail = in.Mail
	g.ModuleList = in.ModuleList
	if in.AppUser != "" {
		g.AppUser = in.AppUser
	}
}

// CreateGroup creates a group and its leader. An admin caller leads the
// new group. For any other caller a sub-admin account named after the group
// number is created from the group's contact data and mailed its password.
func (s *Service) CreateGroup(ctx context.Context, p *auth.Principal, in GroupInput) (*models.Group, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Number) == "" {
		return nil, fmt.Errorf("%w: group number is required", ErrValidation)
	}

	var group *models.Group
	subadmin := false
	err := s.inTx(ctx, func(tx *store.Store, out *outbox) error {
		g := &models.Group{AppUser: p.Name}
		in.apply(g)

		exists, err := store.Exists[models.Group](ctx, tx, "number", g.Number)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("group %s: %w", g.Number, ErrConflict)
		}

		if g.Modules, err = resolveModules(ctx, tx, g.ModuleList); err != nil {
			return err
		}
		if g, err = tx.CreateGroup(ctx, g); err != nil {
			return fmt.Errorf("create group %s: %w", in.Number, err)
		}

		leaderID := p.UserID
		if !p.HasRole(models.RoleAdmin) {
			leader, err := s.createSubadmin(ctx, tx, out, g)
			if err != nil {
				return err
			}
			leaderID = leader.ID
			subadmin = true
		}
		if err := tx.AddGroupMember(ctx, g.ID, leaderID); err != nil {
			return fmt.Errorf("add leader to group %s: %w", g.Number, err)
		}

		group, err = tx.GroupByID(ctx, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.GroupsCreated.Inc()
	if subadmin {
		metrics.UsersCreated.Inc()
	}
	s.logger.Info("group created", slog.String("group", group.Number), slog.String("by", p.Name))
	return group, nil
}

func (s *Service) createSubadmin(ctx context.Context, tx *store.Store, out *outbox, g *models.Group) (*models.User, error) {
	if g.Mail == "" {
		return nil, fmt.Errorf("%w: group %s needs a mail address for its sub-admin", ErrValidation, g.Number)
	}
	name := models.SubadminName(g.Number)
	exists, err := store.Exists[models.User](ctx, tx, "name", name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user %s: %w", name, ErrConflict)
	}

	plain, hash, err := s.newPassword()
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         name,
		Email:        g.Mail,
		PasswordHash: hash,
		Street:       g.Street,
		Zip:          g.Zip,
		City:         g.City,
		Country:      g.Country,
		Language:     g.Language,
		AppUser:      g.AppUser,
		ModuleList:   g.ModuleList,
		Modules:      g.Modules,
		Active:       true,
	}
	if err := s.applyDefaults(ctx, tx, u); err != nil {
		return nil, err
	}

	// Membership is added by the caller together with the leader role.
	u, err = tx.CreateUser(ctx, u, models.RoleAdmin, nil)
	if err != nil {
		return nil, fmt.Errorf("create sub-admin %s: %w", name, err)
	}
	if err := out.add(mail.SubadminRegistration, u.Email, mail.Data{UserName: u.Name, Password: plain, Group: g.Number}); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateGroups updates existing groups and copies their module list to
// the group's sub-admin. A group without sub-admin is updated anyway.
func (s *Service) UpdateGroups(ctx context.Context, p *auth.Principal, inputs []GroupInput) ([]models.Group, error) {
	if err := requireRole(p, models.RoleSuperAdmin); err != nil {
		return nil, err
	}

	var updated []models.Group
	err := s.inTx(ctx, func(tx *store.Store, _ *outbox) error {
		updated = make([]models.Group, 0, len(inputs))
		for _, in := range inputs {
			g, err := s.updateGroup(ctx, tx, in)
			if err != nil {
				return err
			}
			updated = append(updated, *g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) updateGroup(ctx context.Context, tx *store.Store, in GroupInput) (*models.Group, error) {
	var (
		old *models.Group
		err error
	)
	if in.ID != 0 {
		old, err = tx.GroupByID(ctx, in.ID)
	} else {
		old, err = tx.GroupByNumber(ctx, strings.TrimSpace(in.Number))
	}
	if err != nil {
		return nil, translate(err, "group %s", groupRef(in))
	}
	previousNumber := old.Number

	g := *old
	in.apply(&g)
	if g.Number == "" {
		return nil, fmt.Errorf("%w: group number is required", ErrValidation)
	}
	if g.Number != previousNumber {
		exists, err := store.Exists[models.Group](ctx, tx, "number", g.Number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("group %s: %w", g.Number, ErrConflict)
		}
	}

	if g.Modules, err = resolveModules(ctx, tx, g.ModuleList); err != nil {
		return nil, err
	}
	saved, err := tx.UpdateGroup(ctx, &g)
	if err != nil {
		return nil, fmt.Errorf("update group %s: %w", g.Number, err)
	}

	sub, err := tx.UserByNameInGroups(ctx, models.SubadminName(previousNumber), []uint{g.ID})
	if isNotFound(err) {
		s.logger.Warn("group has no sub-admin", slog.String("group", g.Number))
		return saved, nil
	}
	if err != nil {
		return nil, err
	}
	sub.ModuleList = g.ModuleList
	sub.Modules = g.Modules
	if _, err := tx.UpdateUser(ctx, sub); err != nil {
		return nil, fmt.Errorf("update sub-admin of group %s: %w", g.Number, err)
	}
	return saved, nil
}

func groupRef(in GroupInput) string {
	if in.ID != 0 {
		return fmt.Sprintf("%d", in.ID)
	}
	return in.Number
}

// DeleteGroup removes a group and its memberships. Member users are kept.
func (s *Service) DeleteGroup(ctx context.Context, p *auth.Principal, id uint) error {
	if err := requireRole(p, models.RoleSuperAdmin); err != nil {
		return err
	}
	err := s.inTx(ctx, func(tx *store.Store, _ *outbox) error {
		return translate(tx.DeleteGroup(ctx, id), "delete group %d", id)
	})
	if err != nil {
		return err
	}

	metrics.GroupsDeleted.Inc()
	s.logger.Info("group deleted", slog.Uint64("group_id", uint64(id)), slog.String("by", p.Name))
	return nil
}

// ListGroups lists the groups visible to the caller
func (s *Service) ListGroups(ctx context.Context, p *auth.Principal) ([]models.Group, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.store.ListGroups(ctx, scope(p))
}

// GetGroup loads a group visible to the caller
func (s *Service) GetGroup(ctx context.Context, p *auth.Principal, id uint) (*models.Group, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !p.IsSuperAdmin() && !p.InGroup(id) {
		return nil, fmt.Errorf("group %d: %w", id, ErrNotFound)
	}
	g, err := s.store.GroupByID(ctx, id)
	if err != nil {
		return nil, translate(err, "group %d", id)
	}
	return g, nil
}
