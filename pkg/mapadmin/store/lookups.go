package store

import (
	"context"

	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
)

// RoleByName loads a role by its unique name
func (s *Store) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	return FindBy[models.Role](ctx, s, "name", name)
}

// ModulesByIDs loads modules in the order of ids
func (s *Store) ModulesByIDs(ctx context.Context, ids []uint) ([]models.Module, error) {
	return ByIDs[models.Module](ctx, s, ids)
}

// MapLayersByIDs loads map layers in the order of ids
func (s *Store) MapLayersByIDs(ctx context.Context, ids []uint) ([]models.MapLayer, error) {
	return ByIDs[models.MapLayer](ctx, s, ids)
}
