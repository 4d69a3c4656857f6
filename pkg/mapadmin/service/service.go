// Package service implements the administration operations of mapadmin:
// user and group lifecycle, password resets and the notifications they
// trigger. Every mutating operation runs in one database transaction and
// sends its mails as the last step of that transaction, so a failed delivery
// rolls the change back.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/metrics"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

const defaultPasswordLength = 8

// Service is the administration service
type Service struct {
	store    *store.Store
	sender   mail.Sender
	defaults config.DefaultsConfig
	product  string
	logger   *slog.Logger
}

// New creates a Service
func New(st *store.Store, sender mail.Sender, defaults config.DefaultsConfig, product string, logger *slog.Logger) *Service {
	if defaults.PasswordLength <= 0 {
		defaults.PasswordLength = defaultPasswordLength
	}
	return &Service{
		store:    st,
		sender:   sender,
		defaults: defaults,
		product:  product,
		logger:   logger.With(slog.String("component", "service")),
	}
}

// outbox collects the notifications of one transaction
type outbox struct {
	product  string
	messages []mail.Message
}

func (o *outbox) add(kind mail.Kind, to string, data mail.Data) error {
	data.Product = o.product
	msg, err := mail.Render(kind, to, data)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}
	o.messages = append(o.messages, msg)
	return nil
}

// inTx runs fn in a transaction and delivers the queued mails before commit
func (s *Service) inTx(ctx context.Context, fn func(tx *store.Store, out *outbox) error) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		out := &outbox{product: s.product}
		if err := fn(tx, out); err != nil {
			return err
		}
		for _, msg := range out.messages {
			err := s.sender.Send(ctx, msg)
			metrics.MailResult(err)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrMailDelivery, err)
			}
		}
		return nil
	})
}

func requireRole(p *auth.Principal, roles ...string) error {
	if !p.HasAnyRole(roles...) {
		return fmt.Errorf("%w: requires %s", ErrForbidden, strings.Join(roles, " or "))
	}
	return nil
}

func requireAdmin(p *auth.Principal) error {
	return requireRole(p, models.RoleAdmin, models.RoleSuperAdmin)
}

// scope returns the group ids the principal may act on. A nil result means
// unrestricted.
func scope(p *auth.Principal) []uint {
	if p.IsSuperAdmin() {
		return nil
	}
	return append([]uint{}, p.GroupIDs...)
}

// parseModuleList turns a comma separated list of module ids into ids.
// Blank items are skipped and duplicates collapsed.
func parseModuleList(list string) ([]uint, error) {
	var ids []uint
	seen := make(map[uint]bool)
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := strconv.ParseUint(item, 10, 0)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: invalid module id %q", ErrValidation, item)
		}
		if seen[uint(id)] {
			continue
		}
		seen[uint(id)] = true
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// resolveModules loads the modules named by a module list
func resolveModules(ctx context.Context, tx *store.Store, list string) ([]models.Module, error) {
	ids, err := parseModuleList(list)
	if err != nil {
		return nil, err
	}
	modules, err := tx.ModulesByIDs(ctx, ids)
	if err != nil {
		return nil, translateRef(err, "module list")
	}
	return modules, nil
}

// translateRef reports a dangling reference in client input as a validation error
func translateRef(err error, what string) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: unknown %s entry: %v", ErrValidation, what, err)
	}
	return err
}

// configRef is one nullable config reference of a user
type configRef struct {
	kind  string
	field **uint
	def   uint
}

func (s *Service) configRefs(u *models.User) []configRef {
	return []configRef{
		{"map config", &u.MapConfigID, s.defaults.MapConfigID},
		{"wms proxy config", &u.WmsProxyConfigID, s.defaults.WmsProxyConfigID},
		{"wfs proxy config", &u.WfsProxyConfigID, s.defaults.WfsProxyConfigID},
	}
}

func configExists(ctx context.Context, tx *store.Store, kind string, id uint) (bool, error) {
	switch kind {
	case "map config":
		return store.Exists[models.MapConfig](ctx, tx, "id", id)
	case "wms proxy config":
		return store.Exists[models.WmsProxyConfig](ctx, tx, "id", id)
	case "wfs proxy config":
		return store.Exists[models.WfsProxyConfig](ctx, tx, "id", id)
	}
	return false, fmt.Errorf("unknown config kind %q", kind)
}

// checkRefs verifies that every config referenced by u exists
func (s *Service) checkRefs(ctx context.Context, tx *store.Store, u *models.User) error {
	for _, ref := range s.configRefs(u) {
		if *ref.field == nil {
			continue
		}
		ok, err := configExists(ctx, tx, ref.kind, **ref.field)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown %s %d", ErrValidation, ref.kind, **ref.field)
		}
	}
	return nil
}

// applyDefaults attaches the configured default configs to the references
// u leaves unset. Defaults that do not exist are skipped.
func (s *Service) applyDefaults(ctx context.Context, tx *store.Store, u *models.User) error {
	if err := s.checkRefs(ctx, tx, u); err != nil {
		return err
	}
	for _, ref := range s.configRefs(u) {
		if *ref.field != nil || ref.def == 0 {
			continue
		}
		ok, err := configExists(ctx, tx, ref.kind, ref.def)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Warn("default config missing, skipped", slog.String("kind", ref.kind), slog.Uint64("id", uint64(ref.def)))
			continue
		}
		id := ref.def
		*ref.field = &id
	}
	return nil
}

// newPassword returns a random clear password and its hash
func (s *Service) newPassword() (string, string, error) {
	plain, err := auth.RandomPassword(s.defaults.PasswordLength)
	if err != nil {
		return "", "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return plain, hash, nil
}
