package store

import (
	"context"
	"fmt"

	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
)

var groupPreloads = []string{"Users", "Modules"}

// GroupByID loads a group with its members and modules
func (s *Store) GroupByID(ctx context.Context, id uint) (*models.Group, error) {
	return Get[models.Group](ctx, s, id, groupPreloads...)
}

// GroupByNumber loads a group by its unique number
func (s *Store) GroupByNumber(ctx context.Context, number string) (*models.Group, error) {
	return FindBy[models.Group](ctx, s, "number", number)
}

// CreateGroup inserts group and its module associations
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	group.Users = nil
	if err := s.Create(ctx, group); err != nil {
		return nil, err
	}
	return s.GroupByID(ctx, group.ID)
}

// UpdateGroup writes all columns of group and replaces its modules.
// Members are left alone.
func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	if err := s.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := replaceAssociation(ctx, s, &models.Group{ID: group.ID}, "Modules", group.Modules); err != nil {
		return nil, err
	}
	return s.GroupByID(ctx, group.ID)
}

// AddGroupMember makes the user a member of the group. Adding an existing
// member is a no-op.
func (s *Store) AddGroupMember(ctx context.Context, groupID, userID uint) error {
	return s.with(ctx).
		Exec("INSERT INTO group_users (group_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING", groupID, userID).
		Error
}

// DeleteGroup removes a group and its memberships. Member users are kept.
func (s *Store) DeleteGroup(ctx context.Context, id uint) error {
	group, err := Get[models.Group](ctx, s, id)
	if err != nil {
		return err
	}
	for _, assoc := range []string{"Users", "Modules"} {
		if err := s.with(ctx).Model(group).Association(assoc).Clear(); err != nil {
			return fmt.Errorf("clear %s: %w", assoc, err)
		}
	}
	return Delete[models.Group](ctx, s, id)
}

// ListGroups returns groups ordered by number. A nil ids lists every group.
func (s *Store) ListGroups(ctx context.Context, ids []uint) ([]models.Group, error) {
	q := s.with(ctx)
	for _, p := range groupPreloads {
		q = q.Preload(p)
	}
	if ids != nil {
		if len(ids) == 0 {
			return []models.Group{}, nil
		}
		q = q.Where("id IN ?", ids)
	}
	var groups []models.Group
	if err := q.Order("number").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
