package store

import (
	"context"
	"fmt"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
)

// userPreloads lists every relation rendered for a user
var userPreloads = []string{"Roles", "Groups", "Modules", "MapLayers", "MapConfig", "WmsProxyConfig", "WfsProxyConfig"}

// UserFilter narrows ListUsers. A nil GroupIDs means no group restriction.
type UserFilter struct {
	Query    string
	Role     string
	GroupIDs []uint
}

// UserByID loads a user with all relations
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	return Get[models.User](ctx, s, id, userPreloads...)
}

// UserByName loads a user by its unique name with all relations
func (s *Store) UserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	q := s.with(ctx)
	for _, p := range userPreloads {
		q = q.Preload(p)
	}
	if err := q.Where("name = ?", name).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UserByNameInGroups loads a user by name, restricted to members of at
// least one of groupIDs
func (s *Store) UserByNameInGroups(ctx context.Context, name string, groupIDs []uint) (*models.User, error) {
	if len(groupIDs) == 0 {
		return nil, ErrNotFound
	}
	var id uint
	err := s.with(ctx).Model(&models.User{}).
		Select("users.id").
		Joins("JOIN group_users ON group_users.user_id = users.id").
		Where("users.name = ? AND group_users.group_id IN ?", name, groupIDs).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.UserByID(ctx, id)
}

// UserInGroups reports whether the user is a member of at least one of groupIDs
func (s *Store) UserInGroups(ctx context.Context, userID uint, groupIDs []uint) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}
	var count int64
	err := s.with(ctx).Table("group_users").
		Where("user_id = ? AND group_id IN ?", userID, groupIDs).
		Count(&count).Error
	return count > 0, err
}

// CreateUser inserts user with the named role added to its roles and makes
// it a member of groupIDs. Associations already set on user (modules, map
// layers) are stored as well.
func (s *Store) CreateUser(ctx context.Context, user *models.User, roleName string, groupIDs []uint) (*models.User, error) {
	role, err := FindBy[models.Role](ctx, s, "name", roleName)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", roleName, err)
	}
	if !user.HasRole(roleName) {
		user.Roles = append(user.Roles, *role)
	}

	groups, err := ByIDs[models.Group](ctx, s, groupIDs)
	if err != nil {
		return nil, err
	}
	user.Groups = groups

	// Relations are written through their foreign keys only.
	user.MapConfig, user.WmsProxyConfig, user.WfsProxyConfig = nil, nil, nil

	if err := s.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.UserByID(ctx, user.ID)
}

// UpdateUser writes all columns of user and replaces its roles, modules and
// map layers. Group memberships are left alone.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.MapConfig, user.WmsProxyConfig, user.WfsProxyConfig = nil, nil, nil

	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}
	owner := &models.User{ID: user.ID}
	if err := replaceAssociation(ctx, s, owner, "Roles", user.Roles); err != nil {
		return nil, err
	}
	if err := replaceAssociation(ctx, s, owner, "Modules", user.Modules); err != nil {
		return nil, err
	}
	if err := replaceAssociation(ctx, s, owner, "MapLayers", user.MapLayers); err != nil {
		return nil, err
	}
	return s.UserByID(ctx, user.ID)
}

// SetUserPassword stores a new password hash
func (s *Store) SetUserPassword(ctx context.Context, userID uint, hash string) error {
	result := s.with(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user, its memberships and its API keys
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	user, err := Get[models.User](ctx, s, id)
	if err != nil {
		return err
	}
	for _, assoc := range []string{"Roles", "Groups", "Modules", "MapLayers"} {
		if err := s.with(ctx).Model(user).Association(assoc).Clear(); err != nil {
			return fmt.Errorf("clear %s: %w", assoc, err)
		}
	}
	if err := s.with(ctx).Where("user_id = ?", id).Delete(&models.APIKey{}).Error; err != nil {
		return err
	}
	return Delete[models.User](ctx, s, id)
}

// DeleteUserInGroups removes a user only if it belongs to one of groupIDs.
// Users outside those groups are reported as not found.
func (s *Store) DeleteUserInGroups(ctx context.Context, id uint, groupIDs []uint) error {
	ok, err := s.UserInGroups(ctx, id, groupIDs)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.DeleteUser(ctx, id)
}

// ListUsers returns users ordered by name
func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := s.with(ctx).Model(&models.User{})
	for _, p := range userPreloads {
		q = q.Preload(p)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("users.name LIKE ? OR users.email LIKE ?", like, like)
	}
	if f.Role != "" {
		q = q.Where("users.id IN (?)",
			s.with(ctx).Table("user_roles").
				Select("user_roles.user_id").
				Joins("JOIN roles ON roles.id = user_roles.role_id").
				Where("roles.name = ?", f.Role))
	}
	if f.GroupIDs != nil {
		q = q.Where("users.id IN (?)",
			s.with(ctx).Table("group_users").
				Select("user_id").
				Where("group_id IN ?", append([]uint{0}, f.GroupIDs...)))
	}

	var users []models.User
	if err := q.Order("users.name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// LoadPrincipal implements auth.PrincipalLoader. Inactive users have no principal.
func (s *Store) LoadPrincipal(ctx context.Context, userID uint) (*auth.Principal, error) {
	user, err := Get[models.User](ctx, s, userID, "Roles", "Groups")
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %d is inactive: %w", userID, ErrNotFound)
	}
	return auth.PrincipalFromUser(user), nil
}
